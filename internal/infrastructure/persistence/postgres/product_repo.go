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

// ProductRepo implements port.LoanProductRepository.
type ProductRepo struct {
	pool *pgxpool.Pool
}

// NewProductRepo creates a new PostgreSQL-backed product repository.
func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// Save persists a product template.
func (r *ProductRepo) Save(ctx context.Context, product model.LoanProduct) error {
	query := `
		INSERT INTO loan_products (
			id, tenant_id, name, annual_rate_pct,
			interest_type, billing_period, interest_alignment, calculation_method,
			default_duration, auto_extend, exit_fee,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			version    = loan_products.version + 1,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		product.ID(), product.TenantID(), product.Name(), product.AnnualRatePct(),
		product.InterestType().String(), product.BillingPeriod().String(),
		product.InterestAlignment().String(), product.CalculationMethod().String(),
		product.DefaultDuration(), product.AutoExtend(), product.ExitFee(),
		product.Version(), product.CreatedAt(), product.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by ID.
func (r *ProductRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error) {
	query := `
		SELECT id, tenant_id, name, annual_rate_pct,
		       interest_type, billing_period, interest_alignment, calculation_method,
		       default_duration, auto_extend, exit_fee,
		       version, created_at, updated_at
		FROM loan_products
		WHERE tenant_id = $1 AND id = $2
	`
	var (
		pid, tid                   uuid.UUID
		name                       string
		annualRatePct              decimal.Decimal
		interestTypeStr, periodStr string
		alignmentStr, methodStr    string
		defaultDuration            int
		autoExtend                 bool
		exitFee                    decimal.Decimal
		version                    int
		createdAt, updatedAt       time.Time
	)
	err := r.pool.QueryRow(ctx, query, tenantID, id).Scan(
		&pid, &tid, &name, &annualRatePct,
		&interestTypeStr, &periodStr, &alignmentStr, &methodStr,
		&defaultDuration, &autoExtend, &exitFee,
		&version, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanProduct{}, port.ErrProductNotFound
	}
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("scan product: %w", err)
	}

	interestType, err := valueobject.NewInterestType(interestTypeStr)
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("parse interest type: %w", err)
	}
	period, err := valueobject.NewBillingPeriod(periodStr)
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("parse billing period: %w", err)
	}
	alignment, err := valueobject.NewInterestAlignment(alignmentStr)
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("parse interest alignment: %w", err)
	}
	method, err := valueobject.NewCalculationMethod(methodStr)
	if err != nil {
		return model.LoanProduct{}, fmt.Errorf("parse calculation method: %w", err)
	}

	return model.ReconstructLoanProduct(
		pid, tid, name, annualRatePct,
		interestType, period, alignment, method,
		defaultDuration, autoExtend, exitFee,
		version, createdAt, updatedAt,
	), nil
}
