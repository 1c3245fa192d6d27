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
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
	pkgpostgres "github.com/awhitwam/whit-lend-sub010/pkg/postgres"
)

// ScheduleRepo implements port.ScheduleRepository.
type ScheduleRepo struct {
	pool *pgxpool.Pool
}

// NewScheduleRepo creates a new PostgreSQL-backed schedule repository.
func NewScheduleRepo(pool *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{pool: pool}
}

// Replace deletes every existing row for the loan, inserts the new set and
// updates the loan's aggregates in one transaction. A failed replacement
// leaves the prior schedule in place.
func (r *ScheduleRepo) Replace(ctx context.Context, loan model.Loan, rows []model.ScheduleRow) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM schedule_rows WHERE loan_id = $1`, loan.ID(),
		); err != nil {
			return fmt.Errorf("delete schedule rows: %w", err)
		}

		for _, row := range rows {
			_, err := tx.Exec(ctx, `
				INSERT INTO schedule_rows (
					id, loan_id, installment, due_date,
					principal_amount, interest_amount, total_due, balance,
					calculation_days, calculation_principal_start,
					status, principal_paid, interest_paid
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			`,
				row.ID, row.LoanID, row.Installment, row.DueDate,
				row.PrincipalAmount, row.InterestAmount, row.TotalDue, row.Balance,
				row.CalculationDays, row.CalculationPrincipalStart,
				row.Status.String(), row.PrincipalPaid, row.InterestPaid,
			)
			if err != nil {
				return fmt.Errorf("insert schedule row %d: %w", row.Installment, err)
			}
		}

		tag, err := tx.Exec(ctx, `
			UPDATE loans SET
				duration_periods = $3,
				total_interest   = $4,
				total_repayable  = $5,
				version          = loans.version + 1,
				updated_at       = $6
			WHERE tenant_id = $1 AND id = $2
		`,
			loan.TenantID(), loan.ID(),
			loan.DurationPeriods(), loan.TotalInterest(), loan.TotalRepayable(),
			loan.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("update loan aggregates: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errors.New("loan vanished during schedule replacement")
		}
		return nil
	})
}

// ListByLoan returns the persisted rows ordered by installment.
func (r *ScheduleRepo) ListByLoan(ctx context.Context, tenantID, loanID uuid.UUID) ([]model.ScheduleRow, error) {
	query := `
		SELECT s.id, s.loan_id, s.installment, s.due_date,
		       s.principal_amount, s.interest_amount, s.total_due, s.balance,
		       s.calculation_days, s.calculation_principal_start,
		       s.status, s.principal_paid, s.interest_paid
		FROM schedule_rows s
		JOIN loans l ON l.id = s.loan_id
		WHERE l.tenant_id = $1 AND s.loan_id = $2
		ORDER BY s.installment
	`
	rows, err := r.pool.Query(ctx, query, tenantID, loanID)
	if err != nil {
		return nil, fmt.Errorf("query schedule rows: %w", err)
	}
	defer rows.Close()

	var out []model.ScheduleRow
	for rows.Next() {
		row, err := scanScheduleRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanScheduleRow(s scannable) (model.ScheduleRow, error) {
	var (
		id, loanID                  uuid.UUID
		installment                 int
		dueDate                     time.Time
		principalAmt, interestAmt   decimal.Decimal
		totalDue, balance           decimal.Decimal
		calcDays, calcPrincipal     decimal.Decimal
		statusStr                   string
		principalPaid, interestPaid decimal.Decimal
	)
	err := s.Scan(
		&id, &loanID, &installment, &dueDate,
		&principalAmt, &interestAmt, &totalDue, &balance,
		&calcDays, &calcPrincipal,
		&statusStr, &principalPaid, &interestPaid,
	)
	if err != nil {
		return model.ScheduleRow{}, fmt.Errorf("scan schedule row: %w", err)
	}

	status, err := valueobject.NewRowStatus(statusStr)
	if err != nil {
		return model.ScheduleRow{}, fmt.Errorf("parse row status: %w", err)
	}

	return model.ScheduleRow{
		ID:                        id,
		LoanID:                    loanID,
		Installment:               installment,
		DueDate:                   dueDate,
		PrincipalAmount:           principalAmt,
		InterestAmount:            interestAmt,
		TotalDue:                  totalDue,
		Balance:                   balance,
		CalculationDays:           calcDays,
		CalculationPrincipalStart: calcPrincipal,
		Status:                    status,
		PrincipalPaid:             principalPaid,
		InterestPaid:              interestPaid,
	}, nil
}
