package service

import (
	"context"
	"time"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.PartnerOutbox) error

// OutboxRelayer drains pending partnership events to Kafka on a ticker. Rows
// are written transactionally with the state change they describe, so the feed
// never reports a transition that rolled back.
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	logger    *zap.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, logger *zap.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		logger:    logger.Named("outbox_relayer"),
	}
}

// KafkaSender bridges the relayer to a Kafka producer, keyed by company so
// events for one company stay ordered within a partition.
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.PartnerOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.CompanyID), []byte(ob.Payload))
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			r.logger.Warn("outbox send failed",
				zap.Error(err),
				zap.Uint64("outbox_id", ob.ID),
				zap.String("event", ob.EventType),
			)
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}
