package service

import (
	"context"
	"time"

	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/lib/email"
	"github.com/rwidyatama/go-genai-service/internal/repository"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

// reportWindow is how far back the usage report looks. It matches the
// default weekly report schedule.
const reportWindow = 7 * 24 * time.Hour

// UsageService aggregates completion usage for reporting and enforces the
// retention policy. It implements job.UsageReporter and job.RetentionPurger.
type UsageService struct {
	server *server.Server
	repos  *repository.Repositories
	email  *email.Client
}

func NewUsageService(s *server.Server, repos *repository.Repositories, emailClient *email.Client) *UsageService {
	return &UsageService{server: s, repos: repos, email: emailClient}
}

// Summary aggregates usage over an arbitrary window.
func (s *UsageService) Summary(ctx context.Context, from, to time.Time) (*domain.UsageSummary, error) {
	return s.repos.Completion.UsageSummary(ctx, from, to)
}

// SendReport emails the usage summary for the last report window to the
// configured recipient. With no recipient configured it is a no-op; the
// scheduler does not register the report task in that case either.
func (s *UsageService) SendReport(ctx context.Context) error {
	recipient := s.server.Config.Retention.ReportRecipient
	if recipient == "" {
		return nil
	}

	to := time.Now().UTC()
	summary, err := s.repos.Completion.UsageSummary(ctx, to.Add(-reportWindow), to)
	if err != nil {
		return err
	}

	return s.email.SendUsageReport(recipient, *summary)
}

// PurgeExpired deletes terminal completions older than the retention
// window and returns how many were removed.
func (s *UsageService) PurgeExpired(ctx context.Context) (int64, error) {
	days := s.server.Config.Retention.CompletionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	deleted, err := s.repos.Completion.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.server.Logger.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("purged completions past retention")

	return deleted, nil
}
