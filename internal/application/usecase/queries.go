package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/awhitwam/whit-lend-sub010/internal/application/dto"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// GetLoanUseCase retrieves a single loan.
type GetLoanUseCase struct {
	loanRepo port.LoanRepository
}

func NewGetLoanUseCase(loanRepo port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{loanRepo: loanRepo}
}

func (uc *GetLoanUseCase) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return toLoanResponse(loan), nil
}

// GetScheduleUseCase retrieves the persisted schedule rows for a loan.
type GetScheduleUseCase struct {
	loanRepo     port.LoanRepository
	scheduleRepo port.ScheduleRepository
}

func NewGetScheduleUseCase(loanRepo port.LoanRepository, scheduleRepo port.ScheduleRepository) *GetScheduleUseCase {
	return &GetScheduleUseCase{loanRepo: loanRepo, scheduleRepo: scheduleRepo}
}

func (uc *GetScheduleUseCase) Execute(ctx context.Context, req dto.GetScheduleRequest) (dto.ScheduleResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find loan: %w", err)
	}
	rows, err := uc.scheduleRepo.ListByLoan(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("list schedule: %w", err)
	}
	return dto.ScheduleResponse{
		Loan:     toLoanResponse(loan),
		Schedule: toScheduleRowResponses(rows),
		Summary: dto.ScheduleSummary{
			TotalInterest:  loan.TotalInterest(),
			TotalRepayable: loan.TotalRepayable(),
			Duration:       loan.DurationPeriods(),
		},
	}, nil
}

// CreateProductUseCase creates a loan product template.
type CreateProductUseCase struct {
	productRepo port.LoanProductRepository
	now         func() time.Time
}

func NewCreateProductUseCase(productRepo port.LoanProductRepository) *CreateProductUseCase {
	return &CreateProductUseCase{
		productRepo: productRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *CreateProductUseCase) Execute(ctx context.Context, req dto.CreateProductRequest) (dto.ProductResponse, error) {
	interestType, err := valueobject.NewInterestType(req.InterestType)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	period, err := valueobject.NewBillingPeriod(req.BillingPeriod)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	alignment, err := valueobject.NewInterestAlignment(req.InterestAlignment)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	method, err := valueobject.NewCalculationMethod(req.CalculationMethod)
	if err != nil {
		return dto.ProductResponse{}, err
	}

	product, err := model.NewLoanProduct(
		req.TenantID, req.Name, req.AnnualRatePct,
		interestType, period, alignment, method,
		req.DefaultDuration, req.AutoExtend, req.ExitFee,
		uc.now(),
	)
	if err != nil {
		return dto.ProductResponse{}, fmt.Errorf("new product: %w", err)
	}
	if err := uc.productRepo.Save(ctx, product); err != nil {
		return dto.ProductResponse{}, fmt.Errorf("save product: %w", err)
	}
	return toProductResponse(product), nil
}
