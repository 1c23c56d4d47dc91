package payroll

import (
	"context"
	"time"
)

type PeriodRepository interface {
	Create(ctx context.Context, period Period) (Period, error)
	GetByID(ctx context.Context, id string) (Period, error)

	// ClaimProcessing flips status draft->processing in one guarded update.
	// Zero rows affected means the period was already claimed or completed
	// and yields ErrInvalidPeriodState; this is what makes re-processing safe.
	ClaimProcessing(ctx context.Context, id, actorID string, at time.Time) error

	// UpdateTotals attaches the reduced run totals to a processing period.
	UpdateTotals(ctx context.Context, id string, totals Totals) error

	// Complete flips status processing->completed; zero rows affected yields
	// ErrInvalidPeriodState.
	Complete(ctx context.Context, id, approverID string, at time.Time) error
}

type StubRepository interface {
	Create(ctx context.Context, stub PayStub) (PayStub, error)
	GetByID(ctx context.Context, id string) (PayStub, error)
	ListByPeriod(ctx context.Context, periodID string) ([]PayStub, error)

	// SumYTD aggregates gross, taxes and net over paid stubs of the calendar
	// year, feeding both reporting and the social security wage base cap.
	SumYTD(ctx context.Context, employeeID string, year int) (YTD, error)

	// MarkPaidByPeriod flips every processing stub of the period to paid.
	MarkPaidByPeriod(ctx context.Context, periodID string, at time.Time) (int64, error)
}
