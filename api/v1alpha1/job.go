package v1alpha1

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a localization job. The set is closed:
// values outside this enumeration are rejected at the API boundary.
type JobStatus string

const (
	JobStatusCreated    JobStatus = "created"
	JobStatusSubmitted  JobStatus = "submitted"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusTranslated JobStatus = "translated"
	JobStatusQcRunning  JobStatus = "qc_running"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobStatusCreated, JobStatusSubmitted, JobStatusInProgress,
		JobStatusTranslated, JobStatusQcRunning, JobStatusDone, JobStatusFailed:
		return JobStatus(s), nil
	default:
		return "", fmt.Errorf("unknown job status %q", s)
	}
}

type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityNormal JobPriority = "normal"
	JobPriorityHigh   JobPriority = "high"
)

type JobCreateRequest struct {
	SourceLocale  string         `json:"source_locale" validate:"omitempty,locale"`
	TargetLocales []string       `json:"target_locales" validate:"required,min=1,dive,locale"`
	Content       map[string]any `json:"content" validate:"required"`

	Project  string      `json:"project,omitempty"`
	Domain   string      `json:"domain,omitempty"`
	Priority JobPriority `json:"priority,omitempty" validate:"omitempty,priority"`
}

type ExternalRefs struct {
	TmsProvider  *string `json:"tms_provider"`
	TmsJobId     *string `json:"tms_job_id"`
	TmsProjectId *string `json:"tms_project_id"`
}

type JobCreateResponse struct {
	JobId     uuid.UUID `json:"job_id"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type JobStatusResponse struct {
	JobId         uuid.UUID    `json:"job_id"`
	Status        JobStatus    `json:"status"`
	SourceLocale  string       `json:"source_locale"`
	TargetLocales []string     `json:"target_locales"`
	External      ExternalRefs `json:"external"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Error         *string      `json:"error"`
}

type JobResultResponse struct {
	JobId             uuid.UUID      `json:"job_id"`
	Status            JobStatus      `json:"status"`
	TranslatedContent map[string]any `json:"translated_content"`
	QcReport          *QcReport      `json:"qc_report"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
