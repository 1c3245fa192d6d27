package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/awhitwam/whit-lend-sub010/internal/application/usecase"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/event"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
	"github.com/awhitwam/whit-lend-sub010/pkg/auth"
	"github.com/awhitwam/whit-lend-sub010/pkg/testutil"
)

// --- Mock implementations ---

type mockLoanRepo struct {
	saveErr      error
	findByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (model.Loan, error)
}

func (m *mockLoanRepo) Save(_ context.Context, _ model.Loan) error {
	return m.saveErr
}

func (m *mockLoanRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.Loan{}, port.ErrLoanNotFound
}

func (m *mockLoanRepo) FindByBorrowerID(_ context.Context, _, _ uuid.UUID) ([]model.Loan, error) {
	return nil, nil
}

type mockProductRepo struct {
	saveErr      error
	findByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error)
}

func (m *mockProductRepo) Save(_ context.Context, _ model.LoanProduct) error {
	return m.saveErr
}

func (m *mockProductRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.LoanProduct{}, port.ErrProductNotFound
}

type mockTxnRepo struct {
	saved []model.Transaction
}

func (m *mockTxnRepo) Save(_ context.Context, txn model.Transaction) error {
	m.saved = append(m.saved, txn)
	return nil
}

func (m *mockTxnRepo) FindByID(_ context.Context, _, _ uuid.UUID) (model.Transaction, error) {
	return model.Transaction{}, port.ErrNotFound
}

func (m *mockTxnRepo) ListByLoan(_ context.Context, _, _ uuid.UUID) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, txn := range m.saved {
		if txn.DeletedAt() == nil {
			out = append(out, txn)
		}
	}
	return out, nil
}

type mockScheduleRepo struct {
	replaceErr error
	rows       []model.ScheduleRow
}

func (m *mockScheduleRepo) Replace(_ context.Context, _ model.Loan, rows []model.ScheduleRow) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.rows = rows
	return nil
}

func (m *mockScheduleRepo) ListByLoan(_ context.Context, _, _ uuid.UUID) ([]model.ScheduleRow, error) {
	return m.rows, nil
}

type mockPublisher struct {
	publishErr error
}

func (m *mockPublisher) Publish(_ context.Context, _ ...event.DomainEvent) error {
	return m.publishErr
}

// --- Helpers ---

func contextWithClaims(roles ...string) context.Context {
	if len(roles) == 0 {
		roles = []string{auth.RoleAdmin}
	}
	claims := &auth.Claims{
		UserID:   uuid.New(),
		TenantID: testutil.TestTenantID,
		Roles:    roles,
	}
	return auth.ContextWithClaims(context.Background(), claims)
}

func requireGRPCCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %v", err)
	require.Equal(t, want, st.Code(), "unexpected status code: %v", err)
}

func testProduct() model.LoanProduct {
	now := time.Now().UTC()
	return model.ReconstructLoanProduct(
		testutil.TestProductID, testutil.TestTenantID,
		"Bridging 12%",
		decimal.NewFromInt(12),
		valueobject.InterestTypeReducing,
		valueobject.BillingPeriodMonthly,
		valueobject.InterestAlignmentStandard,
		valueobject.CalculationMethodMonthlyFixed,
		12, false, decimal.Zero,
		1, now, now,
	)
}

func testLoan() model.Loan {
	now := time.Now().UTC()
	return model.ReconstructLoan(
		testutil.TestLoanID, testutil.TestTenantID, testutil.TestProductID, testutil.TestBorrowerID,
		decimal.NewFromInt(10000), "GBP",
		now.AddDate(0, 0, -10), 12,
		decimal.NewFromInt(12),
		valueobject.InterestTypeReducing,
		valueobject.BillingPeriodMonthly,
		valueobject.InterestAlignmentStandard,
		valueobject.CalculationMethodMonthlyFixed,
		false, decimal.Zero,
		decimal.Zero, decimal.Zero,
		1, now, now,
	)
}

type handlerFixture struct {
	handler  *LedgerServiceHandler
	loanRepo *mockLoanRepo
	txnRepo  *mockTxnRepo
}

func buildTestHandler() *handlerFixture {
	loan := testLoan()
	loanRepo := &mockLoanRepo{
		findByIDFunc: func(_ context.Context, _, _ uuid.UUID) (model.Loan, error) {
			return loan, nil
		},
	}
	productRepo := &mockProductRepo{
		findByIDFunc: func(_ context.Context, _, _ uuid.UUID) (model.LoanProduct, error) {
			return testProduct(), nil
		},
	}
	txnRepo := &mockTxnRepo{}
	schedRepo := &mockScheduleRepo{}
	publisher := &mockPublisher{}

	regenerateUC := usecase.NewRegenerateScheduleUseCase(loanRepo, productRepo, txnRepo, schedRepo, publisher)
	handler := NewLedgerServiceHandler(
		usecase.NewCreateProductUseCase(productRepo),
		usecase.NewOriginateLoanUseCase(loanRepo, productRepo, schedRepo, publisher),
		regenerateUC,
		usecase.NewRecordTransactionUseCase(loanRepo, txnRepo, publisher, regenerateUC),
		usecase.NewDeleteTransactionUseCase(txnRepo, regenerateUC),
		usecase.NewGetLoanUseCase(loanRepo),
		usecase.NewGetScheduleUseCase(loanRepo, schedRepo),
	)
	return &handlerFixture{handler: handler, loanRepo: loanRepo, txnRepo: txnRepo}
}

func buildEmptyHandler() *LedgerServiceHandler {
	loanRepo := &mockLoanRepo{}
	productRepo := &mockProductRepo{}
	txnRepo := &mockTxnRepo{}
	schedRepo := &mockScheduleRepo{}
	publisher := &mockPublisher{}

	regenerateUC := usecase.NewRegenerateScheduleUseCase(loanRepo, productRepo, txnRepo, schedRepo, publisher)
	return NewLedgerServiceHandler(
		usecase.NewCreateProductUseCase(productRepo),
		usecase.NewOriginateLoanUseCase(loanRepo, productRepo, schedRepo, publisher),
		regenerateUC,
		usecase.NewRecordTransactionUseCase(loanRepo, txnRepo, publisher, regenerateUC),
		usecase.NewDeleteTransactionUseCase(txnRepo, regenerateUC),
		usecase.NewGetLoanUseCase(loanRepo),
		usecase.NewGetScheduleUseCase(loanRepo, schedRepo),
	)
}

// --- Tests ---

func TestRegenerateSchedule(t *testing.T) {
	t.Run("missing claims returns Unauthenticated", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.RegenerateSchedule(context.Background(), &RegenerateScheduleRequest{
			LoanID: testutil.TestLoanID.String(),
		})
		requireGRPCCode(t, err, codes.Unauthenticated)
	})

	t.Run("auditor role cannot regenerate", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.RegenerateSchedule(contextWithClaims(auth.RoleAuditor), &RegenerateScheduleRequest{
			LoanID: testutil.TestLoanID.String(),
		})
		requireGRPCCode(t, err, codes.PermissionDenied)
	})

	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.RegenerateSchedule(contextWithClaims(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("invalid loan_id returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.RegenerateSchedule(contextWithClaims(), &RegenerateScheduleRequest{
			LoanID: "bad-uuid",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid loan_id")
	})

	t.Run("invalid end_date returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.RegenerateSchedule(contextWithClaims(), &RegenerateScheduleRequest{
			LoanID:  testutil.TestLoanID.String(),
			EndDate: "31/12/2026",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid end_date")
	})

	t.Run("unknown loan returns NotFound", func(t *testing.T) {
		h := buildEmptyHandler()
		_, err := h.RegenerateSchedule(contextWithClaims(), &RegenerateScheduleRequest{
			LoanID: testutil.TestLoanID.String(),
		})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("happy path returns rows and summary", func(t *testing.T) {
		f := buildTestHandler()
		resp, err := f.handler.RegenerateSchedule(contextWithClaims(), &RegenerateScheduleRequest{
			LoanID: testutil.TestLoanID.String(),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Loan)
		require.NotNil(t, resp.Summary)
		assert.Len(t, resp.Schedule, 12)
		assert.Equal(t, int32(12), resp.Summary.Duration)
		assert.Equal(t, "10000", resp.Summary.Outstanding)
		assert.Equal(t, int32(1), resp.Schedule[0].Installment)
	})
}

func TestRecordTransaction(t *testing.T) {
	t.Run("invalid amount returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.RecordTransaction(contextWithClaims(), &RecordTransactionRequest{
			LoanID:        testutil.TestLoanID.String(),
			Type:          "REPAYMENT",
			Amount:        "not-a-number",
			EffectiveDate: "2026-03-01",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid amount")
	})

	t.Run("invalid effective_date returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.RecordTransaction(contextWithClaims(), &RecordTransactionRequest{
			LoanID:        testutil.TestLoanID.String(),
			Type:          "REPAYMENT",
			Amount:        "1000",
			EffectiveDate: "March 1st",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid effective_date")
	})

	t.Run("happy path persists the transaction and rebuilds the schedule", func(t *testing.T) {
		f := buildTestHandler()
		yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(dateLayout)
		resp, err := f.handler.RecordTransaction(contextWithClaims(), &RecordTransactionRequest{
			LoanID:           testutil.TestLoanID.String(),
			Type:             "REPAYMENT",
			Amount:           "2500",
			PrincipalApplied: "2000",
			InterestApplied:  "500",
			EffectiveDate:    yesterday,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Transaction)
		assert.Equal(t, "REPAYMENT", resp.Transaction.Type)
		assert.Len(t, f.txnRepo.saved, 1)
		assert.Equal(t, "8000", resp.Summary.Outstanding)
	})
}

func TestGetLoan(t *testing.T) {
	t.Run("auditor role can read", func(t *testing.T) {
		f := buildTestHandler()
		resp, err := f.handler.GetLoan(contextWithClaims(auth.RoleAuditor), &GetLoanRequest{
			ID: testutil.TestLoanID.String(),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Loan)
		assert.Equal(t, testutil.TestLoanID.String(), resp.Loan.ID)
		assert.Equal(t, "GBP", resp.Loan.Currency)
		assert.Equal(t, "REDUCING", resp.Loan.InterestType)
	})

	t.Run("unknown loan returns NotFound", func(t *testing.T) {
		h := buildEmptyHandler()
		_, err := h.GetLoan(contextWithClaims(), &GetLoanRequest{
			ID: testutil.TestLoanID.String(),
		})
		requireGRPCCode(t, err, codes.NotFound)
	})
}

func TestOriginateLoan(t *testing.T) {
	t.Run("invalid currency returns InvalidArgument", func(t *testing.T) {
		f := buildTestHandler()
		_, err := f.handler.OriginateLoan(contextWithClaims(), &OriginateLoanRequest{
			ProductID:  testutil.TestProductID.String(),
			BorrowerID: testutil.TestBorrowerID.String(),
			Principal:  "10000",
			Currency:   "pounds",
			StartDate:  "2026-01-15",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "currency")
	})

	t.Run("unknown product returns NotFound", func(t *testing.T) {
		h := buildEmptyHandler()
		_, err := h.OriginateLoan(contextWithClaims(), &OriginateLoanRequest{
			ProductID:  testutil.TestProductID.String(),
			BorrowerID: testutil.TestBorrowerID.String(),
			Principal:  "10000",
			Currency:   "GBP",
			StartDate:  "2026-01-15",
		})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("happy path originates and returns the first schedule", func(t *testing.T) {
		f := buildTestHandler()
		resp, err := f.handler.OriginateLoan(contextWithClaims(), &OriginateLoanRequest{
			ProductID:  testutil.TestProductID.String(),
			BorrowerID: testutil.TestBorrowerID.String(),
			Principal:  "10000",
			Currency:   "GBP",
			StartDate:  "2026-01-15",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Loan)
		assert.Len(t, resp.Schedule, 12)
		assert.Equal(t, "10000", resp.Summary.Outstanding)
	})
}
