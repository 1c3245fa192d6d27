package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `
	id, tenant_id, product_id, borrower_id,
	principal, currency, start_date, duration_periods,
	annual_rate_pct, interest_type, billing_period,
	interest_alignment, calculation_method,
	auto_extend, exit_fee, total_interest, total_repayable,
	version, created_at, updated_at
`

// Save persists a loan.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		ON CONFLICT (id) DO UPDATE SET
			duration_periods = EXCLUDED.duration_periods,
			total_interest   = EXCLUDED.total_interest,
			total_repayable  = EXCLUDED.total_repayable,
			version          = loans.version + 1,
			updated_at       = EXCLUDED.updated_at
		WHERE loans.version = $18
	`
	tag, err := r.pool.Exec(ctx, query, loanArgs(loan)...)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("optimistic locking conflict on loan")
	}
	return nil
}

// FindByID retrieves a loan by ID.
func (r *LoanRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE tenant_id = $1 AND id = $2`
	loan, err := scanLoanRow(r.pool.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, port.ErrLoanNotFound
	}
	return loan, err
}

// FindByBorrowerID retrieves all loans for a borrower.
func (r *LoanRepo) FindByBorrowerID(ctx context.Context, tenantID, borrowerID uuid.UUID) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE tenant_id = $1 AND borrower_id = $2 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, tenantID, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func loanArgs(loan model.Loan) []any {
	return []any{
		loan.ID(), loan.TenantID(), loan.ProductID(), loan.BorrowerID(),
		loan.Principal(), loan.Currency(), loan.StartDate(), loan.DurationPeriods(),
		loan.AnnualRatePct(), loan.InterestType().String(), loan.BillingPeriod().String(),
		loan.InterestAlignment().String(), loan.CalculationMethod().String(),
		loan.AutoExtend(), loan.ExitFee(), loan.TotalInterest(), loan.TotalRepayable(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	}
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, tenantID, productID, borrowerID uuid.UUID
		principal                           decimal.Decimal
		currency                            string
		startDate                           time.Time
		durationPeriods                     int
		annualRatePct                       decimal.Decimal
		interestTypeStr, periodStr          string
		alignmentStr, methodStr             string
		autoExtend                          bool
		exitFee                             decimal.Decimal
		totalInterest, totalRepayable       decimal.Decimal
		version                             int
		createdAt, updatedAt                time.Time
	)

	err := s.Scan(
		&id, &tenantID, &productID, &borrowerID,
		&principal, &currency, &startDate, &durationPeriods,
		&annualRatePct, &interestTypeStr, &periodStr,
		&alignmentStr, &methodStr,
		&autoExtend, &exitFee, &totalInterest, &totalRepayable,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Loan{}, err
	}

	interestType, err := valueobject.NewInterestType(interestTypeStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse interest type: %w", err)
	}
	period, err := valueobject.NewBillingPeriod(periodStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse billing period: %w", err)
	}
	alignment, err := valueobject.NewInterestAlignment(alignmentStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse interest alignment: %w", err)
	}
	method, err := valueobject.NewCalculationMethod(methodStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse calculation method: %w", err)
	}

	return model.ReconstructLoan(
		id, tenantID, productID, borrowerID,
		principal, currency, startDate, durationPeriods,
		annualRatePct, interestType, period, alignment, method,
		autoExtend, exitFee, totalInterest, totalRepayable,
		version, createdAt, updatedAt,
	), nil
}
