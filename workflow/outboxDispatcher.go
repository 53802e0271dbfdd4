package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/models"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SideEffectExecutor performs the actual work for one outbox row: render a
// document, send a WhatsApp message, or both.
type SideEffectExecutor interface {
	Execute(ctx context.Context, record models.SideEffectRecord) error
}

type OutboxDispatcher struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	Executor     SideEffectExecutor
	DispatcherID string

	BatchSize      int
	PollInterval   time.Duration
	LockTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

func NewOutboxDispatcher(db *gorm.DB, logger *logrus.Logger, executor SideEffectExecutor) *OutboxDispatcher {
	return &OutboxDispatcher{
		DB:             db,
		Logger:         logger,
		Executor:       executor,
		DispatcherID:   uuid.NewString(),
		BatchSize:      50,
		PollInterval:   500 * time.Millisecond,
		LockTimeout:    30 * time.Second,
		MaxAttempts:    10,
		InitialBackoff: 5 * time.Second,
	}
}

func (d *OutboxDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchCycle(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

// dispatchCycle takes a best-effort redis lock so that, when several server
// replicas run, usually only one polls per cycle. Correctness does not
// depend on the lock; SKIP LOCKED keeps concurrent dispatchers from
// claiming the same rows.
func (d *OutboxDispatcher) dispatchCycle(ctx context.Context) {
	locker := config.GetRedisLock()
	if locker == nil {
		d.dispatchOnce(ctx)
		return
	}
	lock, err := locker.Obtain(ctx, "sidefx:dispatcher", d.PollInterval*2, nil)
	if err != nil {
		if err != redislock.ErrNotObtained && d.Logger != nil {
			d.Logger.WithField("module", "OutboxDispatcher").Warn("redis lock error: " + err.Error())
		}
		return
	}
	defer lock.Release(context.Background())
	d.dispatchOnce(ctx)
}

func (d *OutboxDispatcher) dispatchOnce(ctx context.Context) {
	now := time.Now().UTC()
	staleBefore := now.Add(-d.LockTimeout)
	db := d.DB
	if db == nil {
		return
	}

	var claimed []models.SideEffectRecord
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Eligible:
		// - PENDING / FAILED and ready to retry
		// - PROCESSING but the lock is stale (dispatcher crashed mid-batch)
		q := tx.
			Where(`
				(
					publish_status IN ? AND (next_attempt_at IS NULL OR next_attempt_at <= ?)
				)
				OR
				(
					publish_status = ? AND locked_at IS NOT NULL AND locked_at <= ?
				)
			`, []string{models.OutboxStatusPending, models.OutboxStatusFailed}, now, models.OutboxStatusProcessing, staleBefore).
			Order("id ASC").
			Limit(d.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		for i := range claimed {
			// Poison rows go terminal instead of retrying forever.
			if d.MaxAttempts > 0 && claimed[i].PublishAttempts >= d.MaxAttempts {
				msg := fmt.Sprintf("max attempts exceeded (%d)", d.MaxAttempts)
				claimed[i].PublishStatus = models.OutboxStatusDead
				if err := tx.Model(&models.SideEffectRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
					"publish_status":     models.OutboxStatusDead,
					"last_publish_error": &msg,
					"next_attempt_at":    nil,
					"locked_at":          nil,
					"locked_by":          nil,
				}).Error; err != nil {
					return err
				}
				continue
			}

			claimed[i].PublishStatus = models.OutboxStatusProcessing
			claimed[i].LockedAt = &now
			claimed[i].LockedBy = &d.DispatcherID
			claimed[i].PublishAttempts = claimed[i].PublishAttempts + 1
			claimed[i].LastPublishError = nil
			if err := tx.Model(&models.SideEffectRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
				"publish_status":     claimed[i].PublishStatus,
				"locked_at":          claimed[i].LockedAt,
				"locked_by":          claimed[i].LockedBy,
				"publish_attempts":   gorm.Expr("publish_attempts + 1"),
				"last_publish_error": nil,
				"next_attempt_at":    nil,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || len(claimed) == 0 {
		return
	}

	for _, rec := range claimed {
		// Skip rows marked DEAD inside the claim transaction.
		if rec.PublishStatus == models.OutboxStatusDead {
			continue
		}
		if execErr := d.Executor.Execute(ctx, rec); execErr != nil {
			d.markFailed(ctx, rec, execErr)
			continue
		}
		d.markSent(ctx, rec.ID, now)
	}
}

func (d *OutboxDispatcher) markSent(ctx context.Context, recordID int, now time.Time) {
	db := d.DB.WithContext(ctx)
	_ = db.Model(&models.SideEffectRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"publish_status":  models.OutboxStatusSent,
			"published_at":    &now,
			"locked_at":       nil,
			"locked_by":       nil,
			"next_attempt_at": nil,
		}).Error
}

func (d *OutboxDispatcher) markFailed(ctx context.Context, record models.SideEffectRecord, err error) {
	db := d.DB.WithContext(ctx)
	now := time.Now().UTC()
	msg := err.Error()
	attempt := record.PublishAttempts

	if d.MaxAttempts > 0 && attempt >= d.MaxAttempts {
		_ = db.Model(&models.SideEffectRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"publish_status":     models.OutboxStatusDead,
				"last_publish_error": &msg,
				"next_attempt_at":    nil,
				"locked_at":          nil,
				"locked_by":          nil,
			}).Error

		if d.Logger != nil {
			d.Logger.WithFields(logrus.Fields{
				"module":         "OutboxDispatcher",
				"record_id":      record.ID,
				"kind":           record.Kind,
				"attempt":        attempt,
				"correlation_id": record.CorrelationId,
			}).Error("side effect moved to DEAD after max attempts: " + msg)
		}
		return
	}

	next := now.Add(d.backoff(attempt))
	_ = db.Model(&models.SideEffectRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"publish_status":     models.OutboxStatusFailed,
			"last_publish_error": &msg,
			"next_attempt_at":    &next,
			"locked_at":          nil,
			"locked_by":          nil,
		}).Error

	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"module":          "OutboxDispatcher",
			"record_id":       record.ID,
			"kind":            record.Kind,
			"attempt":         attempt,
			"next_attempt_at": next.Format(time.RFC3339Nano),
			"correlation_id":  record.CorrelationId,
		}).Error("side effect failed: " + msg)
	}
}

// backoff doubles per attempt from InitialBackoff, capped at 10 minutes.
func (d *OutboxDispatcher) backoff(attempt int) time.Duration {
	backoff := d.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff > time.Minute*10 {
			return time.Minute * 10
		}
	}
	return backoff
}
