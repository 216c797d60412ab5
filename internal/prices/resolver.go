package prices

import (
	"context"
	"sort"
	"time"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/internal/returns"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

// fetchPadding widens the requested range so weekends and holidays around
// the target dates are covered by a single query.
const fetchPadding = 5 * 24 * time.Hour

// Source is the external price collaborator: one range query returns the
// daily closes between from and to.
type Source interface {
	FetchRange(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PricePoint, error)
}

// Resolver answers (ticker, date) → closing price lookups. Cache hits never
// touch the source; misses are batched into at most one range query per call.
// Source failures degrade every affected date to nil, never to an error.
type Resolver struct {
	source Source
	cache  Cache
	logger *logger.Logger
	now    func() time.Time
}

// NewResolver creates a resolver over the given source and cache.
func NewResolver(source Source, cache Cache, log *logger.Logger) *Resolver {
	return &Resolver{
		source: source,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// ResolveDates resolves closing prices for a ticker on each of the given ISO
// dates. The returned map has an entry per requested date; unavailable dates
// map to nil.
func (r *Resolver) ResolveDates(ctx context.Context, ticker string, dates []string) map[string]*float64 {
	results := make(map[string]*float64, len(dates))
	if ticker == "" || len(dates) == 0 {
		for _, d := range dates {
			results[d] = nil
		}
		return results
	}

	cache := r.cache.Load(ticker)

	var uncached []string
	for _, d := range dates {
		if p, ok := cache[d]; ok {
			p := p
			results[d] = &p
		} else if _, seen := results[d]; !seen {
			uncached = append(uncached, d)
		}
	}

	if len(uncached) == 0 {
		return results
	}

	// Parse the misses; malformed dates are unavailable by definition.
	var parsed []time.Time
	for _, d := range uncached {
		t, err := contracts.ParseDate(d)
		if err != nil {
			results[d] = nil
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return results
	}

	minDate, maxDate := parsed[0], parsed[0]
	for _, t := range parsed[1:] {
		if t.Before(minDate) {
			minDate = t
		}
		if t.After(maxDate) {
			maxDate = t
		}
	}

	from := minDate.Add(-fetchPadding)
	to := maxDate.Add(fetchPadding)

	// Never ask the source for the future; clamp to tomorrow.
	today := r.today()
	if tomorrow := today.AddDate(0, 0, 1); to.After(tomorrow) {
		to = tomorrow
	}

	points, err := r.source.FetchRange(ctx, ticker, from, to)
	if err != nil {
		r.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Price source fetch failed, degrading batch to unavailable")
		for _, d := range uncached {
			if _, seen := results[d]; !seen {
				results[d] = nil
			}
		}
		return results
	}

	priceMap := make(map[string]float64, len(points))
	for _, p := range points {
		priceMap[contracts.FormatDate(p.Date)] = p.Close
	}

	fetchedDates := make([]string, 0, len(priceMap))
	for d := range priceMap {
		fetchedDates = append(fetchedDates, d)
	}
	sort.Strings(fetchedDates)

	updated := false
	for _, d := range uncached {
		if _, seen := results[d]; seen {
			continue
		}

		price, ok := nearest(fetchedDates, priceMap, d)
		if !ok {
			results[d] = nil
			continue
		}

		price = returns.Round2(price)
		if _, exists := cache[d]; !exists {
			cache[d] = price
			updated = true
		}
		p := price
		results[d] = &p
	}

	if updated {
		r.cache.Save(ticker, cache)
	}

	return results
}

// Resolve resolves a single (ticker, date) pair.
func (r *Resolver) Resolve(ctx context.Context, ticker, date string) *float64 {
	return r.ResolveDates(ctx, ticker, []string{date})[date]
}

// CurrentPrice resolves the most recent closing price using today's date as
// the cache key, so repeated lookups within a day stay local.
func (r *Resolver) CurrentPrice(ctx context.Context, ticker string) *float64 {
	today := contracts.FormatDate(r.today())
	return r.Resolve(ctx, ticker, today)
}

// today truncates the injected clock to a date.
func (r *Resolver) today() time.Time {
	y, m, d := r.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nearest picks the price for the target date: exact match first, otherwise
// the closest earlier date, otherwise the closest later one.
func nearest(sortedDates []string, priceMap map[string]float64, target string) (float64, bool) {
	if p, ok := priceMap[target]; ok {
		return p, true
	}

	// Index of the first date > target.
	i := sort.SearchStrings(sortedDates, target)
	if i < len(sortedDates) && sortedDates[i] == target {
		return priceMap[target], true
	}
	if i > 0 {
		return priceMap[sortedDates[i-1]], true
	}
	if i < len(sortedDates) {
		return priceMap[sortedDates[i]], true
	}
	return 0, false
}
