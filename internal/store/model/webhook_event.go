package model

import (
	"encoding/json"
	"time"
)

// WebhookEvent is an entry of the append-only idempotency ledger. The key is
// the record's identity; rows are inserted once and never updated or deleted.
type WebhookEvent struct {
	Key string `gorm:"primaryKey;type:VARCHAR(128)"`

	Provider      string `gorm:"type:VARCHAR(32);not null"`
	Event         string `gorm:"type:VARCHAR(64);not null"`
	InternalJobID string `gorm:"type:VARCHAR(64);not null;index:webhook_events_job_idx"`

	ReceivedAt time.Time `gorm:"autoCreateTime;not null"`
}

func (e WebhookEvent) String() string {
	val, _ := json.Marshal(e)
	return string(val)
}
