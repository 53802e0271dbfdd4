package models

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Side-effect kinds. Each one maps to a document to render, a WhatsApp
// message to send, or both. See workflow/sideEffects.go for execution.
type SideEffectKind string

const (
	SideEffectRegularInvoice    SideEffectKind = "regular_invoice"
	SideEffectRegularCancelled  SideEffectKind = "regular_cancelled"
	SideEffectEventBooking      SideEffectKind = "event_booking"
	SideEffectEventPartPayment  SideEffectKind = "event_part_payment"
	SideEffectEventFinalInvoice SideEffectKind = "event_final_invoice"
	SideEffectEventDelivered    SideEffectKind = "event_delivered"
	SideEffectEventCancelled    SideEffectKind = "event_cancelled"
	SideEffectLowStockAlert     SideEffectKind = "low_stock_alert"
)

const (
	OutboxStatusPending    = "PENDING"
	OutboxStatusProcessing = "PROCESSING"
	OutboxStatusSent       = "SENT"
	OutboxStatusFailed     = "FAILED"
	OutboxStatusDead       = "DEAD"
)

// SideEffectRecord is the transactional-outbox row for document generation
// and WhatsApp notifications. Rows are written inside the same DB
// transaction as the order/inventory mutation; the dispatcher executes them
// after commit, so a crashed process never loses a queued receipt and a
// failed send never rolls back a settled order.
type SideEffectRecord struct {
	ID            int            `gorm:"primary_key;index:idx_sidefx_dispatch,priority:3" json:"id"`
	Kind          SideEffectKind `gorm:"size:40;not null;index" json:"kind"`
	ReferenceType string         `gorm:"size:40;not null" json:"reference_type"`
	ReferenceId   int            `gorm:"not null;index" json:"reference_id"`
	Phone         string         `gorm:"size:20" json:"phone"`
	Payload       []byte         `gorm:"type:blob" json:"payload"`

	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_sidefx_dispatch,priority:1" json:"publish_status"` // PENDING|PROCESSING|SENT|FAILED|DEAD
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_sidefx_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// EnqueueSideEffect writes the outbox row using the caller's transaction so
// the job becomes durable if and only if the domain write commits.
func EnqueueSideEffect(ctx context.Context, tx *gorm.DB, kind SideEffectKind, refType string, refId int, phone string, payload interface{}) error {
	var payloadBytes []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		payloadBytes = b
	}
	record := SideEffectRecord{
		Kind:          kind,
		ReferenceType: refType,
		ReferenceId:   refId,
		Phone:         phone,
		Payload:       payloadBytes,
		PublishStatus: OutboxStatusPending,
		CorrelationId: correlationIdFromContextOrNew(ctx),
	}
	return tx.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
