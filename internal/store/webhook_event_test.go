package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/socovidiu/loc-solutions-backend/internal/config"
	"github.com/socovidiu/loc-solutions-backend/internal/store"
	"github.com/socovidiu/loc-solutions-backend/internal/store/model"
)

var _ = Describe("webhook event store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM webhook_events;")
	})

	Context("register if new", func() {
		It("inserts a previously unseen key", func() {
			inserted, err := s.WebhookEvent().RegisterIfNew(context.TODO(), model.WebhookEvent{
				Key:           "phrase:evt-1",
				Provider:      "phrase",
				Event:         "job.updated",
				InternalJobID: uuid.New().String(),
			})
			Expect(err).To(BeNil())
			Expect(inserted).To(BeTrue())
		})

		It("suppresses a duplicate key", func() {
			event := model.WebhookEvent{
				Key:           "phrase:evt-2",
				Provider:      "phrase",
				Event:         "job.completed",
				InternalJobID: uuid.New().String(),
			}

			inserted, err := s.WebhookEvent().RegisterIfNew(context.TODO(), event)
			Expect(err).To(BeNil())
			Expect(inserted).To(BeTrue())

			inserted, err = s.WebhookEvent().RegisterIfNew(context.TODO(), event)
			Expect(err).To(BeNil())
			Expect(inserted).To(BeFalse())

			var count int64
			Expect(gormdb.Raw("SELECT COUNT(*) FROM webhook_events;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Context("get", func() {
		It("finds a registered event by key", func() {
			jobID := uuid.New().String()
			_, err := s.WebhookEvent().RegisterIfNew(context.TODO(), model.WebhookEvent{
				Key:           "phrase:evt-3",
				Provider:      "phrase",
				Event:         "job.submitted",
				InternalJobID: jobID,
			})
			Expect(err).To(BeNil())

			found, err := s.WebhookEvent().Get(context.TODO(), "phrase:evt-3")
			Expect(err).To(BeNil())
			Expect(found.Provider).To(Equal("phrase"))
			Expect(found.InternalJobID).To(Equal(jobID))
			Expect(found.ReceivedAt.IsZero()).To(BeFalse())
		})

		It("returns not found for an unknown key", func() {
			_, err := s.WebhookEvent().Get(context.TODO(), "phrase:missing")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
