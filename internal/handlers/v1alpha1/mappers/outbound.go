package mappers

import (
	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/store/model"
)

func JobToCreateResponse(job *model.Job) api.JobCreateResponse {
	return api.JobCreateResponse{
		JobId:     job.ID,
		Status:    api.JobStatus(job.Status),
		CreatedAt: job.CreatedAt,
	}
}

func JobToStatusResponse(job *model.Job) api.JobStatusResponse {
	var targetLocales []string
	if job.TargetLocales != nil {
		targetLocales = job.TargetLocales.Data
	}

	return api.JobStatusResponse{
		JobId:         job.ID,
		Status:        api.JobStatus(job.Status),
		SourceLocale:  job.SourceLocale,
		TargetLocales: targetLocales,
		External: api.ExternalRefs{
			TmsProvider: job.TmsProvider,
			TmsJobId:    job.TmsJobID,
		},
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
		Error:     job.Error,
	}
}

func JobToResultResponse(job *model.Job) api.JobResultResponse {
	resp := api.JobResultResponse{
		JobId:     job.ID,
		Status:    api.JobStatus(job.Status),
		UpdatedAt: job.UpdatedAt,
	}
	if job.TranslatedContent != nil {
		resp.TranslatedContent = job.TranslatedContent.Data
	}
	if job.QcReport != nil {
		report := job.QcReport.Data
		resp.QcReport = &report
	}
	return resp
}
