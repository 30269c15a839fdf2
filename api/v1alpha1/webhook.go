package v1alpha1

// Webhook event kinds a TMS is allowed to deliver.
const (
	WebhookEventJobSubmitted = "job.submitted"
	WebhookEventJobUpdated   = "job.updated"
	WebhookEventJobCompleted = "job.completed"
	WebhookEventJobFailed    = "job.failed"
)

func IsKnownWebhookEvent(event string) bool {
	switch event {
	case WebhookEventJobSubmitted, WebhookEventJobUpdated, WebhookEventJobCompleted, WebhookEventJobFailed:
		return true
	default:
		return false
	}
}

// TmsWebhookEvent is the inbound notification a TMS posts to the webhook
// endpoint. Delivery is at-least-once and unordered; the event_id, when
// present, identifies a logical event across retries.
type TmsWebhookEvent struct {
	Provider string `json:"provider"`
	Event    string `json:"event"`

	InternalJobId string `json:"internal_job_id"`
	TmsJobId      string `json:"tms_job_id,omitempty"`

	EventId string `json:"event_id,omitempty"`

	TranslatedContent map[string]any `json:"translated_content,omitempty"`
	Error             string         `json:"error,omitempty"`
}

type WebhookAck struct {
	Ok        bool   `json:"ok"`
	JobId     string `json:"job_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}
