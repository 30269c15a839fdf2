package mappers

import (
	"github.com/google/uuid"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/store/model"
)

func JobFromApi(id uuid.UUID, resource api.JobCreateRequest) model.Job {
	priority := resource.Priority
	if priority == "" {
		priority = api.JobPriorityNormal
	}

	sourceLocale := resource.SourceLocale
	if sourceLocale == "" {
		sourceLocale = "en-US"
	}

	return model.Job{
		ID:            id,
		Status:        string(api.JobStatusCreated),
		SourceLocale:  sourceLocale,
		TargetLocales: model.MakeJSONField(resource.TargetLocales),
		SourceContent: model.MakeJSONField(resource.Content),
		Project:       resource.Project,
		Domain:        resource.Domain,
		Priority:      string(priority),
	}
}
