package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/handlers/v1alpha1/mappers"
	"github.com/socovidiu/loc-solutions-backend/internal/handlers/validator"
	"github.com/socovidiu/loc-solutions-backend/internal/service"
)

type JobHandler struct {
	jobSrv *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobSrv: jobService}
}

func (h *JobHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateJob)
	r.Get("/{id}", h.GetJob)
	r.Get("/{id}/result", h.GetJobResult)
	r.Post("/{id}/qc", h.RunQC)
}

// (POST /api/v1/jobs)
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var form api.JobCreateRequest
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), form)
	if err != nil {
		switch err.(type) {
		case *service.ErrTmsIntegration:
			renderError(w, r, http.StatusBadGateway, "failed to submit job to TMS")
		default:
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.JobToCreateResponse(job))
}

// (GET /api/v1/jobs/{id})
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, "job not found")
		default:
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.JSON(w, r, mappers.JobToStatusResponse(job))
}

// (GET /api/v1/jobs/{id}/result)
func (h *JobHandler) GetJobResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, "job not found")
		default:
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.JSON(w, r, mappers.JobToResultResponse(job))
}

// (POST /api/v1/jobs/{id}/qc)
func (h *JobHandler) RunQC(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return
	}

	report, err := h.jobSrv.RunQC(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, "job not found")
		case *service.ErrJobNotTranslated:
			renderError(w, r, http.StatusConflict, "job has no translated content yet")
		default:
			renderError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	render.JSON(w, r, report)
}

type errorResponse struct {
	Message string `json:"message"`
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Message: message})
}
