package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
)

type Job struct {
	ID     uuid.UUID `gorm:"primaryKey;type:uuid"`
	Status string    `gorm:"type:VARCHAR(32);not null;index:jobs_status_idx"`

	SourceLocale  string                     `gorm:"type:VARCHAR(32);not null"`
	TargetLocales *JSONField[[]string]       `gorm:"type:jsonb;not null"`
	SourceContent *JSONField[map[string]any] `gorm:"type:jsonb;not null"`

	TranslatedContent *JSONField[map[string]any] `gorm:"type:jsonb"`
	QcReport          *JSONField[api.QcReport]   `gorm:"type:jsonb"`

	TmsProvider *string `gorm:"type:VARCHAR(32);"`
	TmsJobID    *string `gorm:"type:VARCHAR(128);index:jobs_tms_job_id_idx"`

	Project  string `gorm:"type:VARCHAR(255)"`
	Domain   string `gorm:"type:VARCHAR(255)"`
	Priority string `gorm:"type:VARCHAR(16);default:normal"`

	Error *string `gorm:"type:TEXT"`

	CreatedAt time.Time `gorm:"not null;index:jobs_created_at_idx"`
	UpdatedAt time.Time `gorm:"not null"`
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

func NewJobFromId(id uuid.UUID) *Job {
	return &Job{ID: id}
}
