package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socovidiu/loc-solutions-backend/internal/store/model"
)

// WebhookEvent is the idempotency ledger. It only grows: registration is the
// single mutation it supports.
type WebhookEvent interface {
	InitialMigration() error
	RegisterIfNew(ctx context.Context, event model.WebhookEvent) (bool, error)
	Get(ctx context.Context, key string) (*model.WebhookEvent, error)
}

type WebhookEventStore struct {
	db *gorm.DB
}

// Make sure we conform to WebhookEvent interface
var _ WebhookEvent = (*WebhookEventStore)(nil)

func NewWebhookEventStore(db *gorm.DB) WebhookEvent {
	return &WebhookEventStore{db: db}
}

func (s *WebhookEventStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.WebhookEvent{})
}

// RegisterIfNew inserts the event unless its key is already present. The
// insert and the uniqueness check are one atomic statement; a separate
// existence check would race under concurrent delivery of the same event.
// Returns true iff this call inserted the row.
func (s *WebhookEventStore) RegisterIfNew(ctx context.Context, event model.WebhookEvent) (bool, error) {
	result := s.getDB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&event)
	if result.Error != nil {
		return false, fmt.Errorf("registering webhook event: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *WebhookEventStore) Get(ctx context.Context, key string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent
	result := s.getDB(ctx).First(&event, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying webhook event: %w", result.Error)
	}
	return &event, nil
}

func (s *WebhookEventStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
