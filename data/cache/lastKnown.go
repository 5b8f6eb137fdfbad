package cache

import (
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	gocache "github.com/patrickmn/go-cache"
)

// LastKnownPrices keeps the latest quote per symbol in memory.
// It is read only when both redis and the upstream api fail.
type LastKnownPrices struct {
	cache *gocache.Cache
}

func NewLastKnownPrices(expiration time.Duration) *LastKnownPrices {
	return &LastKnownPrices{cache: gocache.New(expiration, expiration*2)}
}

func (l *LastKnownPrices) Set(prices model.Prices) {
	for symbol, quote := range prices {
		if !quote.Price.IsPositive() {
			continue
		}
		l.cache.SetDefault(symbol, quote)
	}
}

func (l *LastKnownPrices) Get(symbols []string) model.Prices {
	res := make(model.Prices, len(symbols))
	for _, symbol := range symbols {
		if v, ok := l.cache.Get(symbol); ok {
			res[symbol] = v.(model.PriceQuote)
		}
	}
	return res
}
