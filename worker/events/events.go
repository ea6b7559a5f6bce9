package events

import (
	"context"
	"errors"
	"time"

	"lendpool/core"
	"lendpool/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/sirupsen/logrus"
)

const (
	checkpointKey = "events_checkpoint"
	limit         = 500
	// ids are assigned at insert, so a lower id can commit after a higher one
	defaultGrace = 10 * time.Second
)

var errNoMoreEvents = errors.New("no more events")

// Checkpoint id of the last relayed transaction
type Checkpoint interface {
	Load(ctx context.Context) (int64, error)
	Save(ctx context.Context, id int64) error
}

type propertyCheckpoint struct {
	store property.Store
	key   string
}

// PropertyCheckpoint checkpoint kept in the property store under key
func PropertyCheckpoint(store property.Store, key string) Checkpoint {
	return &propertyCheckpoint{store: store, key: key}
}

func (c *propertyCheckpoint) Load(ctx context.Context) (int64, error) {
	v, err := c.store.Get(ctx, c.key)
	if err != nil {
		return 0, err
	}

	return v.Int64(), nil
}

func (c *propertyCheckpoint) Save(ctx context.Context, id int64) error {
	return c.store.Save(ctx, c.key, id)
}

// Relay replays committed transactions in id order and emits them as events
type Relay struct {
	checkpoint       Checkpoint
	transactionStore core.TransactionStore
	metrics          *metrics.LendingMetrics
	// a gap in ids is waited for this long before it is skipped
	grace time.Duration
	now   func() time.Time
}

// New new event relay, the checkpoint lives under events_checkpoint
func New(propertyStore property.Store, transactionStore core.TransactionStore, m *metrics.LendingMetrics) *Relay {
	return &Relay{
		checkpoint:       PropertyCheckpoint(propertyStore, checkpointKey),
		transactionStore: transactionStore,
		metrics:          m,
		grace:            defaultGrace,
		now:              time.Now,
	}
}

// Run run worker
func (w *Relay) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "events")
	ctx = logger.WithContext(ctx, log)

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err == nil {
				dur = 100 * time.Millisecond
			} else {
				dur = time.Second
			}
		}
	}
}

func (w *Relay) run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	from, err := w.checkpoint.Load(ctx)
	if err != nil {
		log.WithError(err).Errorln("checkpoint.Load")
		return err
	}

	transactions, err := w.transactionStore.List(ctx, core.TransactionQuery{
		FromID: from,
		Limit:  limit,
	})
	if err != nil {
		log.WithError(err).Errorln("transactionStore.List")
		return err
	}

	if len(transactions) == 0 {
		return errNoMoreEvents
	}

	last, relayed := from, 0
	for _, t := range transactions {
		if t.ID != last+1 && w.now().Sub(t.CreatedAt) < w.grace {
			log.Debugf("wait for transactions between %d and %d", last, t.ID)
			break
		}

		w.emit(ctx, t)

		if err := w.checkpoint.Save(ctx, t.ID); err != nil {
			log.WithError(err).Errorln("checkpoint.Save:", t.ID)
			return err
		}

		last = t.ID
		relayed++
	}

	if relayed == 0 {
		return errNoMoreEvents
	}

	return nil
}

func (w *Relay) emit(ctx context.Context, t *core.Transaction) {
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"id":        t.ID,
		"trace_id":  t.TraceID,
		"market_id": t.MarketID,
		"user_id":   t.UserID,
		"action":    t.Action.String(),
		"amount":    t.Amount,
		"shares":    t.Shares,
		"timestamp": t.Timestamp,
		"data":      string(t.Data),
	}).Infoln("event")

	w.metrics.ObserveEvent(t.Action.String())
}
