package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/store/model"
)

type Job interface {
	InitialMigration() error
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status api.JobStatus, errorText *string) error
	UpdateStatusIfCurrent(ctx context.Context, id uuid.UUID, expected, next api.JobStatus) (bool, error)
	SetExternalRef(ctx context.Context, id uuid.UUID, provider, tmsJobID string) error
	SetTranslatedContent(ctx context.Context, id uuid.UUID, content map[string]any) error
	SetTranslatedContentIfAbsent(ctx context.Context, id uuid.UUID, content map[string]any) (bool, error)
	SetQcReport(ctx context.Context, id uuid.UUID, report api.QcReport) error
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{})
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	result := s.getDB(ctx).Create(&job)
	if result.Error != nil {
		return nil, fmt.Errorf("creating job: %w", result.Error)
	}
	return &job, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job := model.NewJobFromId(id)
	result := s.getDB(ctx).First(job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying job: %w", result.Error)
	}
	return job, nil
}

func (s *JobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status api.JobStatus, errorText *string) error {
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "error": errorText})
	if result.Error != nil {
		return fmt.Errorf("updating job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateStatusIfCurrent writes the new status only if the stored status still
// equals the expected one. The compare and the write are a single statement,
// so two concurrent callers racing on the same expected status cannot both
// succeed. A miss is a normal outcome, not an error.
func (s *JobStore) UpdateStatusIfCurrent(ctx context.Context, id uuid.UUID, expected, next api.JobStatus) (bool, error) {
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Update("status", string(next))
	if result.Error != nil {
		return false, fmt.Errorf("updating job status conditionally: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *JobStore) SetExternalRef(ctx context.Context, id uuid.UUID, provider, tmsJobID string) error {
	updates := map[string]any{"tms_provider": provider}
	if tmsJobID != "" {
		updates["tms_job_id"] = tmsJobID
	}
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("updating job external refs: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *JobStore) SetTranslatedContent(ctx context.Context, id uuid.UUID, content map[string]any) error {
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Update("translated_content", model.MakeJSONField(content))
	if result.Error != nil {
		return fmt.Errorf("updating job translated content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// SetTranslatedContentIfAbsent writes content only when none has been stored
// yet. First write wins under concurrent completion deliveries.
func (s *JobStore) SetTranslatedContentIfAbsent(ctx context.Context, id uuid.UUID, content map[string]any) (bool, error) {
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ? AND translated_content IS NULL", id).
		Update("translated_content", model.MakeJSONField(content))
	if result.Error != nil {
		return false, fmt.Errorf("updating job translated content conditionally: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *JobStore) SetQcReport(ctx context.Context, id uuid.UUID, report api.QcReport) error {
	result := s.getDB(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Update("qc_report", model.MakeJSONField(report))
	if result.Error != nil {
		return fmt.Errorf("updating job qc report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
