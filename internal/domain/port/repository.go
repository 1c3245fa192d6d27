package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/event"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
)

// Sentinel errors adapters translate their storage errors into. The use
// case layer branches on these to decide what is fatal before mutation.
var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrProductNotFound = errors.New("loan product not found")
	ErrNotFound        = errors.New("not found")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.Loan, error)
	FindByBorrowerID(ctx context.Context, tenantID, borrowerID uuid.UUID) ([]model.Loan, error)
}

// LoanProductRepository persists and retrieves product templates.
type LoanProductRepository interface {
	Save(ctx context.Context, product model.LoanProduct) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error)
}

// TransactionRepository is the append-only ledger store. ListByLoan returns
// non-deleted transactions ordered by effective date, the exact order the
// engine replays them in.
type TransactionRepository interface {
	Save(ctx context.Context, txn model.Transaction) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.Transaction, error)
	ListByLoan(ctx context.Context, tenantID, loanID uuid.UUID) ([]model.Transaction, error)
}

// ScheduleRepository owns the repayment schedule rows. Replace atomically
// deletes every existing row for the loan and inserts the new set in one
// transaction, so a loan is never left without a schedule on partial
// failure.
type ScheduleRepository interface {
	Replace(ctx context.Context, loan model.Loan, rows []model.ScheduleRow) error
	ListByLoan(ctx context.Context, tenantID, loanID uuid.UUID) ([]model.ScheduleRow, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
