package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lending-engine/internal/domain/loan"
)

// AccrualJob runs the daily penalty sweep over unpaid loans. The trigger is
// external (cron); the sweep itself dedupes per loan per calendar day, so an
// overlapping or repeated trigger cannot double-charge.
type AccrualJob struct {
	ledger loan.LedgerService
	logger *slog.Logger
}

func NewAccrualJob(ledger loan.LedgerService, logger *slog.Logger) *AccrualJob {
	if ledger == nil || logger == nil {
		panic("AccrualJob dependencies cannot be nil")
	}
	return &AccrualJob{
		ledger: ledger,
		logger: logger.With("job", "Accrual"),
	}
}

func (j *AccrualJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily accrual job.")

	summary, err := j.ledger.Accrue(ctx, startTime)
	if err != nil {
		j.logger.ErrorContext(ctx, "Accrual job aborted.", slog.Any("error", err), slog.Duration("duration", time.Since(startTime)))
		return err
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("loans_scanned", summary.Scanned),
		slog.Int("penalties_applied", summary.Applied),
		slog.Int("loans_skipped", summary.Skipped),
		slog.Int("errors_encountered", summary.Errors),
	)
	if summary.Errors > 0 {
		summaryLog.WarnContext(ctx, "Accrual job finished with errors.")
		return fmt.Errorf("accrual job completed with %d errors", summary.Errors)
	}
	summaryLog.InfoContext(ctx, "Accrual job finished successfully.")
	return nil
}
