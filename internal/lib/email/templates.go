package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateUsageReport corresponds to templates/usage_report.html
	TemplateUsageReport Template = "usage_report"
)
