package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuslink/campus-api/internal/core/domain"
)

// LogNotifier delivers workflow notifications as structured log lines.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) ApplicationSubmitted(_ context.Context, app *domain.Application, referral *domain.Referral) {
	n.logger.Info().
		Str("application_id", app.ID).
		Str("referral_id", referral.ID).
		Str("student_id", app.StudentID).
		Str("recipient_id", referral.AlumnusID).
		Str("job_title", referral.JobTitle).
		Str("company", referral.Company).
		Msg("application submitted")
}

func (n *LogNotifier) ApplicationDecided(_ context.Context, app *domain.Application, referral *domain.Referral) {
	n.logger.Info().
		Str("application_id", app.ID).
		Str("referral_id", referral.ID).
		Str("recipient_id", app.StudentID).
		Str("status", string(app.Status)).
		Str("job_title", referral.JobTitle).
		Str("company", referral.Company).
		Msg("application decided")
}
