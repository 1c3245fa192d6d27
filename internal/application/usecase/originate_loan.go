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

// OriginateLoanUseCase creates a loan from a product template and produces
// its first schedule. A new loan has no ledger history; its original
// principal is the replay baseline.
type OriginateLoanUseCase struct {
	loanRepo     port.LoanRepository
	productRepo  port.LoanProductRepository
	scheduleRepo port.ScheduleRepository
	publisher    port.EventPublisher
	now          func() time.Time
}

// NewOriginateLoanUseCase wires dependencies.
func NewOriginateLoanUseCase(
	loanRepo port.LoanRepository,
	productRepo port.LoanProductRepository,
	scheduleRepo port.ScheduleRepository,
	publisher port.EventPublisher,
) *OriginateLoanUseCase {
	return &OriginateLoanUseCase{
		loanRepo:     loanRepo,
		productRepo:  productRepo,
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Execute originates the loan and persists loan plus schedule.
func (uc *OriginateLoanUseCase) Execute(
	ctx context.Context,
	req dto.OriginateLoanRequest,
) (dto.ScheduleResponse, error) {
	now := uc.now()

	product, err := uc.productRepo.FindByID(ctx, req.TenantID, req.ProductID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find product: %w", err)
	}

	loan, err := model.NewLoan(
		req.TenantID, req.BorrowerID,
		product,
		req.Principal, req.Currency,
		req.StartDate, req.Duration, req.AutoExtend,
		now,
	)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("new loan: %w", err)
	}

	result, err := schedule.Generate(schedule.Input{
		LoanID:        loan.ID(),
		Principal:     loan.Principal(),
		StartDate:     loan.StartDate(),
		AnnualRatePct: loan.AnnualRatePct(),
		InterestType:  loan.InterestType(),
		BillingPeriod: loan.BillingPeriod(),
		Alignment:     loan.InterestAlignment(),
		Method:        loan.CalculationMethod(),
	}, loan.DurationPeriods())
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	totalInterest := money.RoundCents(result.TotalInterest)
	outstanding := money.RoundCents(loan.Principal())
	totalRepayable := money.RoundCents(totalInterest.Add(outstanding).Add(loan.ExitFee()))

	loan, err = loan.WithScheduleResult(loan.DurationPeriods(), len(result.Rows), totalInterest, totalRepayable, outstanding, now)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("apply schedule result: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("save loan: %w", err)
	}
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
			Duration:       loan.DurationPeriods(),
		},
	}, nil
}
