package contracts

import "time"

// PricePoint is one daily close from the external price source.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Float returns a pointer to v. Nullable price and return fields are
// modeled as *float64 so absent values marshal as JSON null.
func Float(v float64) *float64 {
	return &v
}
