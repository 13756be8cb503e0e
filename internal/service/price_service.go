package service

import (
	"context"
	"time"

	"github.com/ishchuktaras/wallet-explorer/internal/client"
	"github.com/ishchuktaras/wallet-explorer/internal/port"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const adaPriceCacheKey = "ada_usd"

// priceServiceImpl implements port.PriceService on top of the CoinGecko
// client with a short-lived in-process cache.
type priceServiceImpl struct {
	client client.PriceClient
	cache  *cache.Cache
	logger *zap.Logger
}

// NewPriceService creates a new instance of priceServiceImpl.
func NewPriceService(priceClient client.PriceClient, ttl, cleanup time.Duration, logger *zap.Logger) port.PriceService {
	return &priceServiceImpl{
		client: priceClient,
		cache:  cache.New(ttl, cleanup),
		logger: logger.Named("PriceService"),
	}
}

// GetAdaPriceUSD implements port.PriceService. Lookup failures degrade to
// zero and are never cached, so the next caller retries.
func (s *priceServiceImpl) GetAdaPriceUSD(ctx context.Context) float64 {
	if cached, found := s.cache.Get(adaPriceCacheKey); found {
		return cached.(float64)
	}

	price, err := s.client.GetAdaPriceUSD(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch ADA price, degrading to zero", zap.Error(err))
		return 0
	}
	if price > 0 {
		s.cache.Set(adaPriceCacheKey, price, cache.DefaultExpiration)
	}
	return price
}
