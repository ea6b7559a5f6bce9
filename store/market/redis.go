package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lendpool/core"

	"github.com/fox-one/pkg/logger"
	"github.com/go-redis/redis"
)

// RedisCache market cache shared by every process on the same redis
func RedisCache(store core.IMarketStore, client *redis.Client, exp time.Duration) core.IMarketStore {
	return &redisMarketStore{
		IMarketStore: store,
		Redis:        client,
		exp:          exp,
	}
}

type redisMarketStore struct {
	core.IMarketStore
	Redis *redis.Client
	exp   time.Duration
}

func (s *redisMarketStore) Find(ctx context.Context, marketID string) (*core.Market, error) {
	k := s.marketCacheKey(marketID)

	bs, err := s.Redis.Get(k).Bytes()
	if err == nil {
		var market core.Market
		if err := json.Unmarshal(bs, &market); err == nil {
			return &market, nil
		}
	} else if err != redis.Nil {
		logger.FromContext(ctx).WithError(err).Debugln("redis get market")
	}

	market, err := s.IMarketStore.Find(ctx, marketID)
	if err != nil {
		return nil, err
	}

	s.Redis.Set(k, market.Format(), s.exp)
	return market, nil
}

func (s *redisMarketStore) Invalidate(ctx context.Context, marketID string) {
	if err := s.Redis.Del(s.marketCacheKey(marketID)).Err(); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("redis del market")
	}

	s.IMarketStore.Invalidate(ctx, marketID)
}

func (s *redisMarketStore) marketCacheKey(marketID string) string {
	return fmt.Sprintf("lendpool:market:%s", marketID)
}
