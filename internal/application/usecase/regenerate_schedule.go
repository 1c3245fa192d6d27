package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/awhitwam/whit-lend-sub010/internal/application/dto"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/schedule"
	"github.com/awhitwam/whit-lend-sub010/pkg/money"
	"github.com/awhitwam/whit-lend-sub010/pkg/observability"
)

// RegenerateScheduleUseCase rebuilds a loan's repayment schedule from its
// ledger and replaces the persisted rows in one transaction.
type RegenerateScheduleUseCase struct {
	loanRepo     port.LoanRepository
	productRepo  port.LoanProductRepository
	txnRepo      port.TransactionRepository
	scheduleRepo port.ScheduleRepository
	publisher    port.EventPublisher
	locker       *loanLocker
	now          func() time.Time
}

// NewRegenerateScheduleUseCase wires dependencies.
func NewRegenerateScheduleUseCase(
	loanRepo port.LoanRepository,
	productRepo port.LoanProductRepository,
	txnRepo port.TransactionRepository,
	scheduleRepo port.ScheduleRepository,
	publisher port.EventPublisher,
) *RegenerateScheduleUseCase {
	return &RegenerateScheduleUseCase{
		loanRepo:     loanRepo,
		productRepo:  productRepo,
		txnRepo:      txnRepo,
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		locker:       newLoanLocker(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Execute regenerates the schedule under the loan's mutex. Calling it twice
// with an unchanged ledger yields identical rows and aggregates.
func (uc *RegenerateScheduleUseCase) Execute(
	ctx context.Context,
	req dto.RegenerateScheduleRequest,
) (dto.ScheduleResponse, error) {
	release := uc.locker.Acquire(req.LoanID)
	defer release()
	return uc.executeLocked(ctx, req)
}

// executeLocked runs the pipeline assuming the caller already holds the
// loan's mutex. Sibling use cases that post ledger changes call this after
// their own write, inside the same critical section.
func (uc *RegenerateScheduleUseCase) executeLocked(
	ctx context.Context,
	req dto.RegenerateScheduleRequest,
) (dto.ScheduleResponse, error) {
	now := uc.now()

	// 1. Load everything. A missing loan or product aborts before any
	// mutation.
	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find loan: %w", err)
	}
	if _, err := uc.productRepo.FindByID(ctx, req.TenantID, loan.ProductID()); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find product: %w", err)
	}
	txns, err := uc.txnRepo.ListByLoan(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("list transactions: %w", err)
	}
	if req.SkipDisbursement {
		txns = withoutDisbursements(txns)
	}

	// 2. Outstanding as of today, including anything posted today.
	today := now.Truncate(24 * time.Hour)
	outstanding := schedule.PrincipalAt(loan.Principal(), txns, today.AddDate(0, 0, 1))

	// 3. Duration policy, then the row pipeline.
	duration := schedule.ResolveDuration(schedule.DurationInput{
		Current:      loan.DurationPeriods(),
		Original:     loan.DurationPeriods(),
		AutoExtend:   loan.AutoExtend(),
		InterestType: loan.InterestType(),
		Period:       loan.BillingPeriod(),
		StartDate:    loan.StartDate(),
		Outstanding:  outstanding,
		Now:          now,
		Override:     req.Duration,
		EndDate:      req.EndDate,
	})

	result, err := schedule.Generate(schedule.Input{
		LoanID:        loan.ID(),
		Principal:     loan.Principal(),
		StartDate:     loan.StartDate(),
		AnnualRatePct: loan.AnnualRatePct(),
		InterestType:  loan.InterestType(),
		BillingPeriod: loan.BillingPeriod(),
		Alignment:     loan.InterestAlignment(),
		Method:        loan.CalculationMethod(),
		Transactions:  txns,
	}, duration)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	// 4. Aggregates, rounded at the boundary.
	totalInterest := money.RoundCents(result.TotalInterest)
	outstanding = money.RoundCents(outstanding)
	totalRepayable := money.RoundCents(totalInterest.Add(outstanding).Add(loan.ExitFee()))

	loan, err = loan.WithScheduleResult(duration, len(result.Rows), totalInterest, totalRepayable, outstanding, now)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("apply schedule result: %w", err)
	}

	// 5. Replace rows and update the loan atomically, then publish.
	if err := uc.scheduleRepo.Replace(ctx, loan, result.Rows); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("replace schedule: %w", err)
	}
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("publish events: %w", err)
	}

	observability.ScheduleRegenerations.WithLabelValues(loan.InterestType().String()).Inc()
	observability.ScheduleRowsWritten.Add(float64(len(result.Rows)))

	return dto.ScheduleResponse{
		Loan:     toLoanResponse(loan),
		Schedule: toScheduleRowResponses(result.Rows),
		Summary: dto.ScheduleSummary{
			TotalInterest:  totalInterest,
			TotalRepayable: totalRepayable,
			Outstanding:    outstanding,
			Duration:       duration,
		},
	}, nil
}

// withoutDisbursements filters disbursement postings out of the replay set.
func withoutDisbursements(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Type().IsDisbursement() {
			continue
		}
		out = append(out, txn)
	}
	return out
}
