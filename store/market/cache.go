package market

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache read through cache of markets, dropped by Invalidate
func Cache(store core.IMarketStore, exp time.Duration) core.IMarketStore {
	return &cacheMarketStore{
		IMarketStore: store,
		cache:        gcache.New(512).LRU().Expiration(exp).Build(),
		sf:           &singleflight.Group{},
	}
}

type cacheMarketStore struct {
	core.IMarketStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheMarketStore) Find(ctx context.Context, marketID string) (*core.Market, error) {
	key := s.marketKey(marketID)
	if v, err := s.cache.Get(key); err == nil {
		if market, ok := v.(*core.Market); ok {
			return copyMarket(market), nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		market, err := s.IMarketStore.Find(ctx, marketID)
		if err != nil {
			return nil, err
		}

		_ = s.cache.Set(key, copyMarket(market))
		return market, nil
	})
	if err != nil {
		return nil, err
	}

	return copyMarket(v.(*core.Market)), nil
}

func (s *cacheMarketStore) Invalidate(ctx context.Context, marketID string) {
	s.cache.Remove(s.marketKey(marketID))
	s.IMarketStore.Invalidate(ctx, marketID)
}

func (s *cacheMarketStore) marketKey(marketID string) string {
	return fmt.Sprintf("market:id:%s", marketID)
}

func copyMarket(m *core.Market) *core.Market {
	c := *m
	return &c
}
