package cmd

import (
	"time"

	"lendpool/core"
	"lendpool/pkg/metrics"
	accountservice "lendpool/service/account"
	actionservice "lendpool/service/action"
	"lendpool/service/lending"
	marketservice "lendpool/service/market"
	"lendpool/service/session"
	"lendpool/store/account"
	"lendpool/store/market"
	"lendpool/store/position"
	"lendpool/store/transaction"
	"lendpool/store/transfer"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/go-redis/redis"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideMarketStore(db *db.DB) core.IMarketStore {
	store := market.New(db)
	if cfg.Redis.Addr != "" {
		store = market.RedisCache(store, provideRedis(), time.Minute)
	}

	return market.Cache(store, 10*time.Second)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return account.New(db)
}

func provideTransferStore(db *db.DB) core.ITransferStore {
	return transfer.New(db)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.New(db)
}

// ------------------service------------------------------------

func provideSession() core.Session {
	return session.New(provideConfig())
}

func provideCustodyService(db *db.DB) core.ICustodyService {
	return accountservice.New(db, provideAccountStore(db), provideTransferStore(db))
}

func provideMarketService(db *db.DB, marketStore core.IMarketStore, custody core.ICustodyService) core.IMarketService {
	return marketservice.New(db, marketStore, custody, cfg.Market)
}

func provideActionService(
	db *db.DB,
	marketStore core.IMarketStore,
	positionStore core.IPositionStore,
	transactionStore core.TransactionStore,
	custody core.ICustodyService,
) core.IActionService {
	return actionservice.New(
		db,
		marketStore,
		positionStore,
		transactionStore,
		custody,
		lending.New(time.Now),
		metrics.Lending(),
	)
}
