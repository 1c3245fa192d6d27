package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awhitwam/whit-lend-sub010/internal/application/dto"
	"github.com/awhitwam/whit-lend-sub010/internal/application/usecase"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
	"github.com/awhitwam/whit-lend-sub010/pkg/testutil"
)

func TestOriginateLoan_Execute(t *testing.T) {
	t.Run("creates the loan with its first schedule", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		productRepo := &mockProductRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error) {
				return fixtureProduct(), nil
			},
		}
		schedRepo := &mockScheduleRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewOriginateLoanUseCase(loanRepo, productRepo, schedRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.OriginateLoanRequest{
			TenantID:   testutil.TestTenantID,
			ProductID:  testutil.TestProductID,
			BorrowerID: testutil.TestBorrowerID,
			Principal:  decimal.NewFromInt(10000),
			Currency:   "GBP",
			StartDate:  time.Now().UTC(),
		})
		require.NoError(t, err)

		assert.Equal(t, 12, resp.Summary.Duration, "product default duration applies")
		assert.Len(t, resp.Schedule, 12)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(10000), resp.Summary.Outstanding)

		require.Len(t, loanRepo.savedLoans, 1)
		require.Len(t, schedRepo.replacedWith, 1)

		types := publisher.eventTypes()
		assert.Contains(t, types, "lending.loan.originated")
		assert.Contains(t, types, "lending.schedule.regenerated")
	})

	t.Run("duration option overrides the product default", func(t *testing.T) {
		productRepo := &mockProductRepository{
			findByIDFunc: func(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error) {
				return fixtureProduct(), nil
			},
		}
		uc := usecase.NewOriginateLoanUseCase(&mockLoanRepository{}, productRepo, &mockScheduleRepository{}, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.OriginateLoanRequest{
			TenantID:   testutil.TestTenantID,
			ProductID:  testutil.TestProductID,
			BorrowerID: testutil.TestBorrowerID,
			Principal:  decimal.NewFromInt(10000),
			Currency:   "GBP",
			StartDate:  time.Now().UTC(),
			Duration:   24,
		})
		require.NoError(t, err)
		assert.Equal(t, 24, resp.Summary.Duration)
		assert.Len(t, resp.Schedule, 24)
	})

	t.Run("fails when the product is missing", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		uc := usecase.NewOriginateLoanUseCase(loanRepo, &mockProductRepository{}, &mockScheduleRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.OriginateLoanRequest{
			TenantID:   testutil.TestTenantID,
			ProductID:  testutil.TestProductID,
			BorrowerID: testutil.TestBorrowerID,
			Principal:  decimal.NewFromInt(10000),
			Currency:   "GBP",
			StartDate:  time.Now().UTC(),
		})
		require.ErrorIs(t, err, port.ErrProductNotFound)
		assert.Empty(t, loanRepo.savedLoans)
	})
}
