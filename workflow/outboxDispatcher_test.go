package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The claim query needs FOR UPDATE SKIP LOCKED and only runs against MySQL.
// These tests cover the state transitions around it on sqlite.

func setupDispatcherDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	config.SetDB(db)
	models.MigrateTable()

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			_ = sqlDB.Close()
		}
		config.SetDB(nil)
	})
	return db
}

func seedRecord(t *testing.T, db *gorm.DB, attempts int) models.SideEffectRecord {
	t.Helper()
	record := models.SideEffectRecord{
		Kind:            models.SideEffectRegularInvoice,
		ReferenceType:   "regular_orders",
		ReferenceId:     1,
		Phone:           "+919876543210",
		Payload:         []byte(`{}`),
		PublishStatus:   models.OutboxStatusProcessing,
		PublishAttempts: attempts,
		CorrelationId:   "test-corr",
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return record
}

type fakeExecutor struct {
	calls int
	err   error
}

func (f *fakeExecutor) Execute(ctx context.Context, record models.SideEffectRecord) error {
	f.calls++
	return f.err
}

func reload(t *testing.T, db *gorm.DB, id int) models.SideEffectRecord {
	t.Helper()
	var record models.SideEffectRecord
	if err := db.First(&record, id).Error; err != nil {
		t.Fatalf("reload record: %v", err)
	}
	return record
}

func TestMarkSent(t *testing.T) {
	db := setupDispatcherDB(t)
	d := NewOutboxDispatcher(db, logrus.New(), &fakeExecutor{})

	record := seedRecord(t, db, 1)
	d.markSent(context.Background(), record.ID, time.Now().UTC())

	got := reload(t, db, record.ID)
	if got.PublishStatus != models.OutboxStatusSent {
		t.Fatalf("status = %s, want %s", got.PublishStatus, models.OutboxStatusSent)
	}
	if got.PublishedAt == nil {
		t.Fatal("published_at not set")
	}
	if got.LockedAt != nil || got.LockedBy != nil {
		t.Fatal("lock not released")
	}
}

func TestMarkFailed_SchedulesRetry(t *testing.T) {
	db := setupDispatcherDB(t)
	d := NewOutboxDispatcher(db, logrus.New(), &fakeExecutor{})

	record := seedRecord(t, db, 1)
	d.markFailed(context.Background(), record, errors.New("graph api 500"))

	got := reload(t, db, record.ID)
	if got.PublishStatus != models.OutboxStatusFailed {
		t.Fatalf("status = %s, want %s", got.PublishStatus, models.OutboxStatusFailed)
	}
	if got.NextAttemptAt == nil {
		t.Fatal("next_attempt_at not set")
	}
	if !got.NextAttemptAt.After(time.Now().UTC().Add(-time.Second)) {
		t.Fatalf("next_attempt_at in the past: %v", got.NextAttemptAt)
	}
	if got.LastPublishError == nil || *got.LastPublishError != "graph api 500" {
		t.Fatalf("last_publish_error = %v", got.LastPublishError)
	}
}

func TestMarkFailed_MovesToDeadAfterMaxAttempts(t *testing.T) {
	db := setupDispatcherDB(t)
	d := NewOutboxDispatcher(db, logrus.New(), &fakeExecutor{})

	record := seedRecord(t, db, d.MaxAttempts)
	d.markFailed(context.Background(), record, errors.New("still broken"))

	got := reload(t, db, record.ID)
	if got.PublishStatus != models.OutboxStatusDead {
		t.Fatalf("status = %s, want %s", got.PublishStatus, models.OutboxStatusDead)
	}
	if got.NextAttemptAt != nil {
		t.Fatal("dead record must not be rescheduled")
	}
}

func TestBackoff_DoublesAndCaps(t *testing.T) {
	d := NewOutboxDispatcher(nil, logrus.New(), &fakeExecutor{})

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{4, 40 * time.Second},
		{20, 10 * time.Minute},
	}
	for _, tc := range cases {
		if got := d.backoff(tc.attempt); got != tc.want {
			t.Errorf("backoff(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestDocumentExecutor_DropsUnknownKinds(t *testing.T) {
	e := NewDocumentExecutor(logrus.New())

	err := e.Execute(context.Background(), models.SideEffectRecord{
		ID:      1,
		Kind:    "mystery",
		Payload: []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("unknown kind must be dropped, got %v", err)
	}
}

func TestDocumentExecutor_RendersRegularInvoice(t *testing.T) {
	t.Setenv("DOCUMENT_DIR", t.TempDir())
	t.Setenv("WHATSAPP_ENABLED", "false")

	e := NewDocumentExecutor(logrus.New())
	payload := []byte(`{
		"id": 7,
		"customer_name": "Priya Sharma",
		"phone": "+919876543210",
		"items": [{"name": "Ladoo", "price": "450", "quantity": "2", "total": "900"}],
		"payment": {"amount": "900", "method": "cash"},
		"order_date": "2026-08-30T10:00:00Z"
	}`)

	err := e.Execute(context.Background(), models.SideEffectRecord{
		ID:      1,
		Kind:    models.SideEffectRegularInvoice,
		Phone:   "+919876543210",
		Payload: payload,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
}
