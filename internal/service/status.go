package service

import (
	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
)

// allowedTransitions is the job status state machine. An absent pair means the
// transition is ignored, not rejected: webhook delivery is unordered and may
// be retried after the job has already advanced past the implied state.
var allowedTransitions = map[api.JobStatus][]api.JobStatus{
	api.JobStatusCreated:    {api.JobStatusSubmitted, api.JobStatusFailed},
	api.JobStatusSubmitted:  {api.JobStatusInProgress, api.JobStatusFailed},
	api.JobStatusInProgress: {api.JobStatusTranslated, api.JobStatusFailed},
	api.JobStatusTranslated: {api.JobStatusQcRunning, api.JobStatusDone, api.JobStatusFailed},
	api.JobStatusQcRunning:  {api.JobStatusDone, api.JobStatusFailed},
	api.JobStatusDone:       {},
	api.JobStatusFailed:     {},
}

func CanTransition(current, next api.JobStatus) bool {
	for _, allowed := range allowedTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

func IsTerminal(status api.JobStatus) bool {
	return len(allowedTransitions[status]) == 0
}
