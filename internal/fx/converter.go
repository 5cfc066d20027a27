package fx

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultMaxAttempts is the requested day plus six earlier days.
const DefaultMaxAttempts = 7

// Cache holds looked-up rates by ISO date, including misses (nil).
// Safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	rates map[string]*float64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{rates: make(map[string]*float64)}
}

// Get returns the cached rate for date. found is false if date was never
// looked up; a found nil rate is a cached miss.
func (c *Cache) Get(date string) (rate *float64, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rate, found = c.rates[date]
	return rate, found
}

// Put records the outcome of a lookup.
func (c *Cache) Put(date string, rate *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[date] = rate
}

// Len returns the number of cached dates.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rates)
}

// Converter resolves BRL->USD rates for transaction dates.
type Converter struct {
	provider    RateProvider
	cache       *Cache
	maxAttempts int
	log         zerolog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithCache shares an existing cache instead of a private one.
func WithCache(c *Cache) Option {
	return func(conv *Converter) { conv.cache = c }
}

// WithMaxAttempts overrides how many days are tried, counting the
// transaction date itself.
func WithMaxAttempts(n int) Option {
	return func(conv *Converter) {
		if n > 0 {
			conv.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used for lookup warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(conv *Converter) { conv.log = l }
}

// NewConverter returns a converter with its own cache. Create one per
// extraction run unless a shared cache is passed with WithCache.
func NewConverter(p RateProvider, opts ...Option) *Converter {
	c := &Converter{
		provider:    p,
		cache:       NewCache(),
		maxAttempts: DefaultMaxAttempts,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the converter's cache.
func (c *Converter) Cache() *Cache {
	return c.cache
}

// Rate returns the sell rate for isoDate (YYYY-MM-DD). Days without a quote
// are walked backwards up to the attempt limit. Failures yield nil and are
// cached like successes, so each date costs at most one walk per run.
func (c *Converter) Rate(ctx context.Context, isoDate string) *float64 {
	if rate, found := c.cache.Get(isoDate); found {
		return rate
	}

	day, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		c.log.Warn().Str("date", isoDate).Msg("cannot look up PTAX rate for non-ISO date")
		c.cache.Put(isoDate, nil)
		return nil
	}

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		rate, ok, err := c.provider.Quote(ctx, day)
		if err != nil {
			c.log.Warn().Err(err).Str("date", isoDate).Str("quote_date", day.Format("2006-01-02")).
				Msg("PTAX lookup failed")
			c.cache.Put(isoDate, nil)
			return nil
		}
		if ok {
			c.cache.Put(isoDate, &rate)
			return &rate
		}
		day = day.AddDate(0, 0, -1)
	}

	c.log.Warn().Str("date", isoDate).Int("attempts", c.maxAttempts).Msg("no PTAX quote found")
	c.cache.Put(isoDate, nil)
	return nil
}

// Convert returns brl/rate rounded to cents, or nil when either input is
// missing or the rate is not positive.
func Convert(brl, rate *float64) *float64 {
	if brl == nil || rate == nil || *rate <= 0 {
		return nil
	}
	usd := decimal.NewFromFloat(*brl).Div(decimal.NewFromFloat(*rate)).Round(2).InexactFloat64()
	return &usd
}
