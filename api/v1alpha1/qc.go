package v1alpha1

type QcSeverity string

const (
	QcSeverityInfo    QcSeverity = "info"
	QcSeverityWarning QcSeverity = "warning"
	QcSeverityError   QcSeverity = "error"
)

type QcIssue struct {
	Severity QcSeverity     `json:"severity"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Source   *string        `json:"source,omitempty"`
	Target   *string        `json:"target,omitempty"`
	Path     *string        `json:"path,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

type QcReport struct {
	Passed bool      `json:"passed"`
	Score  *float64  `json:"score,omitempty"`
	Issues []QcIssue `json:"issues"`
	Model  *string   `json:"model,omitempty"`
}
