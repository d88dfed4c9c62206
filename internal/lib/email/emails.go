package email

import (
	"strconv"

	"github.com/rwidyatama/go-genai-service/internal/domain"
)

// SendUsageReport sends the periodic usage summary email.
func (c *Client) SendUsageReport(to string, summary domain.UsageSummary) error {
	data := map[string]string{
		"From":             summary.From.Format("2006-01-02"),
		"To":               summary.To.Format("2006-01-02"),
		"TotalRequests":    formatInt(summary.TotalRequests),
		"CompletedCount":   formatInt(summary.CompletedCount),
		"FailedCount":      formatInt(summary.FailedCount),
		"CacheHits":        formatInt(summary.CacheHits),
		"PromptTokens":     formatInt(summary.PromptTokens),
		"CompletionTokens": formatInt(summary.CompletionTokens),
		"TotalCost":        summary.TotalCost.StringFixed(4),
	}

	return c.SendEmail(
		to,
		"GenAI Service usage report",
		TemplateUsageReport,
		data,
	)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
