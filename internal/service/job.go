package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/config"
	"github.com/socovidiu/loc-solutions-backend/internal/service/mappers"
	"github.com/socovidiu/loc-solutions-backend/internal/store"
	"github.com/socovidiu/loc-solutions-backend/internal/store/model"
	"github.com/socovidiu/loc-solutions-backend/internal/tms"
)

// JobService orchestrates the localization job lifecycle: creation and
// submission to the TMS, webhook-driven status progression, and QC
// finalization. All status mutations after creation go through conditional
// updates; the webhook ledger suppresses duplicate deliveries before any
// other side effect.
type JobService struct {
	store store.Store
	tms   tms.Client
	qc    *QCService
	cfg   *config.Config
}

func NewJobService(store store.Store, tmsClient tms.Client, qc *QCService, cfg *config.Config) *JobService {
	return &JobService{
		store: store,
		tms:   tmsClient,
		qc:    qc,
		cfg:   cfg,
	}
}

// CreateJob persists a new job and submits it to the TMS. The job row is
// retained on submission failure as an audit trail; the caller has to issue a
// new creation request to retry.
func (s *JobService) CreateJob(ctx context.Context, resource api.JobCreateRequest) (*model.Job, error) {
	job, err := s.store.Job().Create(ctx, mappers.JobFromApi(uuid.New(), resource))
	if err != nil {
		return nil, err
	}

	tmsJobID, err := s.submit(ctx, job)
	if err != nil {
		zap.S().Named("job_service").Warnf("job %s: TMS submission failed: %v", job.ID, err)
		errText := err.Error()
		if updateErr := s.store.Job().UpdateStatus(ctx, job.ID, api.JobStatusFailed, &errText); updateErr != nil {
			zap.S().Named("job_service").Errorf("job %s: failed to record submission failure: %v", job.ID, updateErr)
		}
		return nil, NewErrTmsIntegration(err)
	}

	// single-writer path: no webhook can race a job the provider does not
	// know about yet, so unconditional writes are safe here
	txCtx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Job().SetExternalRef(txCtx, job.ID, s.tms.Provider(), tmsJobID); err != nil {
		_, _ = store.Rollback(txCtx)
		return nil, err
	}
	if err := s.store.Job().UpdateStatus(txCtx, job.ID, api.JobStatusSubmitted, nil); err != nil {
		_, _ = store.Rollback(txCtx)
		return nil, err
	}
	if _, err := store.Commit(txCtx); err != nil {
		return nil, err
	}

	return s.store.Job().Get(ctx, job.ID)
}

// submit performs the outbound TMS call with bounded exponential backoff and
// jitter, up to the configured retry count.
func (s *JobService) submit(ctx context.Context, job *model.Job) (string, error) {
	backoff := retry.WithJitter(250*time.Millisecond, retry.NewExponential(500*time.Millisecond))
	backoff = retry.WithMaxRetries(uint64(s.cfg.TMS.HTTPRetries), backoff)

	var tmsJobID string
	var lastErr error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := s.tms.CreateJob(ctx, s.cfg.TMS.ProjectID, job.SourceLocale, job.TargetLocales.Data, job.SourceContent.Data)
		if err != nil {
			lastErr = err
			return retry.RetryableError(err)
		}
		tmsJobID = id
		return nil
	})
	if err != nil {
		if lastErr != nil {
			return "", lastErr
		}
		return "", err
	}
	return tmsJobID, nil
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

// HandleWebhook applies a TMS notification to the job it references. Returns
// the job id and whether the delivery was a duplicate. Duplicates are
// acknowledged with no side effects so the provider stops retrying.
func (s *JobService) HandleWebhook(ctx context.Context, event api.TmsWebhookEvent) (uuid.UUID, bool, error) {
	// payload validation precedes ledger registration: a malformed or
	// unrecognized event must not occupy an idempotency key
	if !api.IsKnownWebhookEvent(event.Event) {
		return uuid.Nil, false, NewErrUnknownEvent(event.Event)
	}
	jobID, err := uuid.Parse(event.InternalJobId)
	if err != nil {
		return uuid.Nil, false, NewErrInvalidJobID(event.InternalJobId)
	}

	key, err := IdempotencyKey(event)
	if err != nil {
		return uuid.Nil, false, err
	}

	first, err := s.store.WebhookEvent().RegisterIfNew(ctx, model.WebhookEvent{
		Key:           key,
		Provider:      event.Provider,
		Event:         event.Event,
		InternalJobID: event.InternalJobId,
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	if !first {
		zap.S().Named("job_service").Debugf("job %s: duplicate webhook delivery %q", jobID, key)
		return jobID, true, nil
	}

	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return uuid.Nil, false, NewErrJobNotFound(jobID)
		}
		return uuid.Nil, false, err
	}

	// refs are metadata only; repeating the write is harmless
	if err := s.store.Job().SetExternalRef(ctx, jobID, event.Provider, event.TmsJobId); err != nil {
		return uuid.Nil, false, err
	}

	current, err := api.ParseJobStatus(job.Status)
	if err != nil {
		return uuid.Nil, false, err
	}

	// a terminal job cannot be revived by a stale notification
	if IsTerminal(current) {
		return jobID, false, nil
	}

	switch event.Event {
	case api.WebhookEventJobSubmitted, api.WebhookEventJobUpdated:
		err = s.onSubmittedOrUpdated(ctx, jobID, current)
	case api.WebhookEventJobFailed:
		err = s.onFailed(ctx, jobID, event.Error)
	case api.WebhookEventJobCompleted:
		err = s.onCompleted(ctx, jobID, current, event.TranslatedContent)
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	return jobID, false, nil
}

func (s *JobService) onSubmittedOrUpdated(ctx context.Context, jobID uuid.UUID, current api.JobStatus) error {
	if !CanTransition(current, api.JobStatusInProgress) {
		return nil
	}

	if current == api.JobStatusCreated || current == api.JobStatusSubmitted {
		// CAS against the snapshot; a concurrent handler winning the race is
		// not an error
		if _, err := s.store.Job().UpdateStatusIfCurrent(ctx, jobID, current, api.JobStatusInProgress); err != nil {
			return err
		}
	}
	return nil
}

func (s *JobService) onFailed(ctx context.Context, jobID uuid.UUID, errText string) error {
	// failure preempts any non-terminal state, no conditional guard needed
	if errText == "" {
		errText = "TMS failed"
	}
	return s.store.Job().UpdateStatus(ctx, jobID, api.JobStatusFailed, &errText)
}

func (s *JobService) onCompleted(ctx context.Context, jobID uuid.UUID, current api.JobStatus, translatedContent map[string]any) error {
	if translatedContent != nil {
		// first write wins: a delayed or duplicate completion cannot clobber
		// a previously accepted translation
		if _, err := s.store.Job().SetTranslatedContentIfAbsent(ctx, jobID, translatedContent); err != nil {
			return err
		}
	}

	if current == api.JobStatusTranslated || current == api.JobStatusQcRunning || current == api.JobStatusDone {
		return nil
	}

	// a completion may arrive before any submitted/updated event and still
	// advance the job directly from created
	if current == api.JobStatusCreated || current == api.JobStatusSubmitted || current == api.JobStatusInProgress {
		if _, err := s.store.Job().UpdateStatusIfCurrent(ctx, jobID, current, api.JobStatusTranslated); err != nil {
			return err
		}
	}
	return nil
}

// RunQC scores the translated content and finalizes the job. This is the
// single path reaching done from translated/qc_running.
func (s *JobService) RunQC(ctx context.Context, jobID uuid.UUID) (*api.QcReport, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.TranslatedContent == nil {
		return nil, NewErrJobNotTranslated(jobID)
	}

	if _, err := s.store.Job().UpdateStatusIfCurrent(ctx, jobID, api.JobStatusTranslated, api.JobStatusQcRunning); err != nil {
		return nil, err
	}

	report := s.qc.Run(job.SourceContent.Data, job.TranslatedContent.Data)
	if err := s.FinalizeQC(ctx, jobID, report); err != nil {
		return nil, err
	}
	return &report, nil
}

// FinalizeQC stores the QC report and transitions to done.
func (s *JobService) FinalizeQC(ctx context.Context, jobID uuid.UUID, report api.QcReport) error {
	txCtx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Job().SetQcReport(txCtx, jobID, report); err != nil {
		_, _ = store.Rollback(txCtx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(jobID)
		}
		return err
	}
	if err := s.store.Job().UpdateStatus(txCtx, jobID, api.JobStatusDone, nil); err != nil {
		_, _ = store.Rollback(txCtx)
		return err
	}
	if _, err := store.Commit(txCtx); err != nil {
		return err
	}
	return nil
}
