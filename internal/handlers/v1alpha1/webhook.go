package v1alpha1

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/render"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/config"
	"github.com/socovidiu/loc-solutions-backend/internal/service"
)

const webhookSecretHeader = "X-Webhook-Secret"

type WebhookHandler struct {
	jobSrv *service.JobService
	secret string
}

func NewWebhookHandler(jobService *service.JobService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		jobSrv: jobService,
		secret: cfg.TMS.WebhookSecret,
	}
}

// (POST /api/v1/webhooks/tms)
func (h *WebhookHandler) HandleTmsWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		renderError(w, r, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var event api.TmsWebhookEvent
	if err := render.DecodeJSON(r.Body, &event); err != nil {
		renderError(w, r, http.StatusBadRequest, "malformed webhook payload")
		return
	}

	jobID, duplicate, err := h.jobSrv.HandleWebhook(r.Context(), event)
	if err != nil {
		switch err.(type) {
		case *service.ErrUnknownEvent:
			renderError(w, r, http.StatusBadRequest, "unknown event")
		case *service.ErrInvalidJobID:
			renderError(w, r, http.StatusBadRequest, "invalid internal job id")
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, "internal job not found")
		default:
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.JSON(w, r, api.WebhookAck{
		Ok:        true,
		JobId:     jobID.String(),
		Duplicate: duplicate,
	})
}

// authorized checks the shared webhook secret. Authentication is skipped when
// no secret is configured.
func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	provided := r.Header.Get(webhookSecretHeader)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) == 1
}
