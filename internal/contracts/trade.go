package contracts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DateLayout is the ISO date format used for every date field in the system.
// Lexicographic order on these strings equals chronological order.
const DateLayout = "2006-01-02"

// Transaction types as they appear in normalized disclosure records.
const (
	TxPurchase    = "purchase"
	TxSaleFull    = "sale_full"
	TxSalePartial = "sale_partial"
	TxExchange    = "exchange"
)

// Trade is one normalized disclosure line, immutable in its identity fields.
// Enrichment attaches the price/return fields; they stay nil (JSON null) when
// price data is unavailable.
type Trade struct {
	ID               string `json:"id"`
	Politician       string `json:"politician"`
	Party            string `json:"party"`
	State            string `json:"state"`
	Chamber          string `json:"chamber"`
	Ticker           string `json:"ticker"`
	AssetDescription string `json:"asset_description"`
	AssetType        string `json:"asset_type"`
	TxType           string `json:"tx_type"`
	TxDate           string `json:"tx_date"`
	DisclosureDate   string `json:"disclosure_date"`
	AmountLow        int64  `json:"amount_low"`
	AmountHigh       int64  `json:"amount_high"`
	Owner            string `json:"owner"`
	FilingURL        string `json:"filing_url"`
	IsAmended        bool   `json:"is_amended"`
	DaysLate         int    `json:"days_late"`

	// Set by the backtest when the filing omitted a disclosure date.
	DisclosureDateEstimated bool `json:"disclosure_date_estimated,omitempty"`

	// Enrichment fields
	EstPosition  int64    `json:"est_position"`
	PriceAtTrade *float64 `json:"price_at_trade"`
	CurrentPrice *float64 `json:"current_price"`
	EstReturn    *float64 `json:"est_return"`
}

// TradeID derives the deterministic content id for a trade, stable across
// re-ingestion of the same disclosure line.
func TradeID(politician, txDate, ticker, txType string, amountLow, amountHigh int64) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%d|%d", politician, txDate, ticker, txType, amountLow, amountHigh)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// maxTickerLen is the longest symbol treated as a listed equity; longer
// "ticker" strings are almost always CUSIPs or free-text asset names.
const maxTickerLen = 6

// IsEquityTicker reports whether a ticker string looks like a priceable
// exchange symbol.
func IsEquityTicker(ticker string) bool {
	return ticker != "" && len(ticker) <= maxTickerLen
}

// IsSale reports whether the trade is a full or partial sale.
func (t *Trade) IsSale() bool {
	return t.TxType == TxSaleFull || t.TxType == TxSalePartial
}

// Midpoint returns the midpoint of the amount range, or 0 when no range
// is reported.
func (t *Trade) Midpoint() int64 {
	if t.AmountLow+t.AmountHigh <= 0 {
		return 0
	}
	return (t.AmountLow + t.AmountHigh) / 2
}

// DaysLateFor computes the filing delay beyond the 45-day statutory window.
// Returns 0 when on time or when either date is missing or malformed.
func DaysLateFor(txDate, disclosureDate string) int {
	tx, err := ParseDate(txDate)
	if err != nil {
		return 0
	}
	disc, err := ParseDate(disclosureDate)
	if err != nil {
		return 0
	}
	late := int(disc.Sub(tx).Hours()/24) - 45
	if late < 0 {
		return 0
	}
	return late
}

// ParseDate parses an ISO date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a time as an ISO date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
