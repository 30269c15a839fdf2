package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/config"
	"github.com/socovidiu/loc-solutions-backend/internal/service"
	"github.com/socovidiu/loc-solutions-backend/internal/store"
	"github.com/socovidiu/loc-solutions-backend/internal/store/model"
)

// fakeTmsClient stands in for the provider gateway. It fails the first
// failUntil calls and succeeds afterwards.
type fakeTmsClient struct {
	failUntil int
	calls     int
	jobID     string
}

func (c *fakeTmsClient) Provider() string {
	return "phrase"
}

func (c *fakeTmsClient) CreateJob(_ context.Context, _, _ string, _ []string, _ map[string]any) (string, error) {
	c.calls++
	if c.calls <= c.failUntil {
		return "", errors.New("tms unavailable")
	}
	if c.jobID == "" {
		return "TMS-1", nil
	}
	return c.jobID, nil
}

var _ = Describe("job service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		cfg    *config.Config
		tmsc   *fakeTmsClient
		svc    *service.JobService
	)

	createRequest := func() api.JobCreateRequest {
		return api.JobCreateRequest{
			SourceLocale:  "en-US",
			TargetLocales: []string{"ro-RO", "de-DE"},
			Content:       map[string]any{"title": "Hello", "body": "World"},
		}
	}

	// seedJob inserts a job row directly, bypassing TMS submission, so a
	// scenario can start from any status.
	seedJob := func(status api.JobStatus) uuid.UUID {
		id := uuid.New()
		_, err := s.Job().Create(context.TODO(), model.Job{
			ID:            id,
			Status:        string(status),
			SourceLocale:  "en-US",
			TargetLocales: model.MakeJSONField([]string{"ro-RO"}),
			SourceContent: model.MakeJSONField(map[string]any{"title": "Hello"}),
		})
		Expect(err).To(BeNil())
		return id
	}

	webhook := func(jobID uuid.UUID, event, eventID string) api.TmsWebhookEvent {
		return api.TmsWebhookEvent{
			Provider:      "phrase",
			Event:         event,
			InternalJobId: jobID.String(),
			TmsJobId:      "TMS-1",
			EventId:       eventID,
		}
	}

	BeforeAll(func() {
		cfg = config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		tmsc = &fakeTmsClient{}
		svc = service.NewJobService(s, tmsc, service.NewQCService(), cfg)
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM webhook_events;")
	})

	Context("job creation", func() {
		It("creates and submits a job", func() {
			job, err := svc.CreateJob(context.TODO(), createRequest())
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusSubmitted)))
			Expect(*job.TmsProvider).To(Equal("phrase"))
			Expect(*job.TmsJobID).To(Equal("TMS-1"))
			Expect(job.Priority).To(Equal(string(api.JobPriorityNormal)))
		})

		It("retries a transient submission failure", func() {
			tmsc.failUntil = 1

			job, err := svc.CreateJob(context.TODO(), createRequest())
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusSubmitted)))
			Expect(tmsc.calls).To(Equal(2))
		})

		It("marks the job failed when submission exhausts its retries", func() {
			tmsc.failUntil = 10

			_, err := svc.CreateJob(context.TODO(), createRequest())
			var tmsErr *service.ErrTmsIntegration
			Expect(errors.As(err, &tmsErr)).To(BeTrue())

			// the row is kept as an audit trail
			var job model.Job
			Expect(gormdb.First(&job).Error).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusFailed)))
			Expect(*job.Error).To(Equal("tms unavailable"))
		})
	})

	Context("webhook processing", func() {
		It("advances a submitted job to in_progress", func() {
			id := seedJob(api.JobStatusSubmitted)

			jobID, duplicate, err := svc.HandleWebhook(context.TODO(), webhook(id, api.WebhookEventJobUpdated, "evt-1"))
			Expect(err).To(BeNil())
			Expect(duplicate).To(BeFalse())
			Expect(jobID).To(Equal(id))

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusInProgress)))
			Expect(*job.TmsJobID).To(Equal("TMS-1"))
		})

		It("leaves a created job untouched on an update notification", func() {
			id := seedJob(api.JobStatusCreated)

			_, _, err := svc.HandleWebhook(context.TODO(), webhook(id, api.WebhookEventJobUpdated, "evt-1"))
			Expect(err).To(BeNil())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusCreated)))
		})

		It("acknowledges a duplicate delivery without side effects", func() {
			id := seedJob(api.JobStatusSubmitted)
			event := webhook(id, api.WebhookEventJobUpdated, "evt-1")

			_, duplicate, err := svc.HandleWebhook(context.TODO(), event)
			Expect(err).To(BeNil())
			Expect(duplicate).To(BeFalse())

			jobID, duplicate, err := svc.HandleWebhook(context.TODO(), event)
			Expect(err).To(BeNil())
			Expect(duplicate).To(BeTrue())
			Expect(jobID).To(Equal(id))
		})

		It("treats re-serialized payloads without an event id as one delivery", func() {
			id := seedJob(api.JobStatusSubmitted)
			event := webhook(id, api.WebhookEventJobUpdated, "")

			_, duplicate, err := svc.HandleWebhook(context.TODO(), event)
			Expect(err).To(BeNil())
			Expect(duplicate).To(BeFalse())

			_, duplicate, err = svc.HandleWebhook(context.TODO(), event)
			Expect(err).To(BeNil())
			Expect(duplicate).To(BeTrue())
		})

		It("stores translated content and advances on completion", func() {
			id := seedJob(api.JobStatusInProgress)
			event := webhook(id, api.WebhookEventJobCompleted, "evt-1")
			event.TranslatedContent = map[string]any{"title": "Salut"}

			_, _, err := svc.HandleWebhook(context.TODO(), event)
			Expect(err).To(BeNil())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusTranslated)))
			Expect(job.TranslatedContent.Data).To(HaveKeyWithValue("title", "Salut"))
		})

		It("lets a completion overtake earlier lifecycle events", func() {
			id := seedJob(api.JobStatusCreated)
			event := webhook(id, api.WebhookEventJobCompleted, "evt-1")
			event.TranslatedContent = map[string]any{"title": "Salut"}

			_, _, err := svc.HandleWebhook(context.TODO(), event)
			Expect(err).To(BeNil())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusTranslated)))
		})

		It("keeps the first translation when completions race", func() {
			id := seedJob(api.JobStatusInProgress)

			first := webhook(id, api.WebhookEventJobCompleted, "evt-1")
			first.TranslatedContent = map[string]any{"title": "Salut"}
			_, _, err := svc.HandleWebhook(context.TODO(), first)
			Expect(err).To(BeNil())

			second := webhook(id, api.WebhookEventJobCompleted, "evt-2")
			second.TranslatedContent = map[string]any{"title": "Bonjour"}
			_, _, err = svc.HandleWebhook(context.TODO(), second)
			Expect(err).To(BeNil())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.TranslatedContent.Data).To(HaveKeyWithValue("title", "Salut"))
		})

		It("accepts a completion without content as a status-only signal", func() {
			id := seedJob(api.JobStatusInProgress)

			_, _, err := svc.HandleWebhook(context.TODO(), webhook(id, api.WebhookEventJobCompleted, "evt-1"))
			Expect(err).To(BeNil())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusTranslated)))
			Expect(job.TranslatedContent).To(BeNil())
		})

		It("fails a job from any non-terminal state", func() {
			id := seedJob(api.JobStatusInProgress)
			event := webhook(id, api.WebhookEventJobFailed, "evt-1")
			event.Error = "provider exploded"

			_, _, err := svc.HandleWebhook(context.TODO(), event)
			Expect(err).To(BeNil())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusFailed)))
			Expect(*job.Error).To(Equal("provider exploded"))
		})

		It("records a fallback error text on a bare failure event", func() {
			id := seedJob(api.JobStatusSubmitted)

			_, _, err := svc.HandleWebhook(context.TODO(), webhook(id, api.WebhookEventJobFailed, "evt-1"))
			Expect(err).To(BeNil())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(*job.Error).To(Equal("TMS failed"))
		})

		It("ignores any event on a terminal job", func() {
			id := seedJob(api.JobStatusDone)

			jobID, duplicate, err := svc.HandleWebhook(context.TODO(), webhook(id, api.WebhookEventJobFailed, "evt-1"))
			Expect(err).To(BeNil())
			Expect(duplicate).To(BeFalse())
			Expect(jobID).To(Equal(id))

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusDone)))
		})

		It("rejects an unknown event before touching the ledger", func() {
			id := seedJob(api.JobStatusSubmitted)

			_, _, err := svc.HandleWebhook(context.TODO(), webhook(id, "job.paused", "evt-1"))
			var unknownErr *service.ErrUnknownEvent
			Expect(errors.As(err, &unknownErr)).To(BeTrue())

			var count int64
			Expect(gormdb.Raw("SELECT COUNT(*) FROM webhook_events;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(0)))
		})

		It("rejects a malformed job id", func() {
			event := webhook(uuid.New(), api.WebhookEventJobUpdated, "evt-1")
			event.InternalJobId = "not-a-uuid"

			_, _, err := svc.HandleWebhook(context.TODO(), event)
			var invalidErr *service.ErrInvalidJobID
			Expect(errors.As(err, &invalidErr)).To(BeTrue())
		})

		It("reports an unknown job", func() {
			_, _, err := svc.HandleWebhook(context.TODO(), webhook(uuid.New(), api.WebhookEventJobUpdated, "evt-1"))
			var notFoundErr *service.ErrJobNotFound
			Expect(errors.As(err, &notFoundErr)).To(BeTrue())
		})
	})

	Context("qc", func() {
		It("scores a translated job and finalizes it", func() {
			id := seedJob(api.JobStatusTranslated)
			Expect(s.Job().SetTranslatedContent(context.TODO(), id, map[string]any{"title": "Salut"})).To(Succeed())

			report, err := svc.RunQC(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(report.Passed).To(BeTrue())

			job, err := svc.GetJob(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(string(api.JobStatusDone)))
			Expect(job.QcReport.Data.Passed).To(BeTrue())
		})

		It("refuses to score a job without translated content", func() {
			id := seedJob(api.JobStatusInProgress)

			_, err := svc.RunQC(context.TODO(), id)
			var notTranslatedErr *service.ErrJobNotTranslated
			Expect(errors.As(err, &notTranslatedErr)).To(BeTrue())
		})
	})
})
