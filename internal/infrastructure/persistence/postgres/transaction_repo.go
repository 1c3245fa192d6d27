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

// TransactionRepo implements port.TransactionRepository over the
// append-only ledger table.
type TransactionRepo struct {
	pool *pgxpool.Pool
}

// NewTransactionRepo creates a new PostgreSQL-backed transaction repository.
func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `
	id, tenant_id, loan_id, type,
	amount, principal_applied, interest_applied,
	effective_date, reference, deleted_at, created_at
`

// Save inserts a transaction, or records its soft-delete timestamp. No
// other column is ever updated.
func (r *TransactionRepo) Save(ctx context.Context, txn model.Transaction) error {
	query := `
		INSERT INTO ledger_transactions (` + transactionColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			deleted_at = EXCLUDED.deleted_at
	`
	_, err := r.pool.Exec(ctx, query,
		txn.ID(), txn.TenantID(), txn.LoanID(), txn.Type().String(),
		txn.Amount(), txn.PrincipalApplied(), txn.InterestApplied(),
		txn.EffectiveDate(), txn.Reference(), txn.DeletedAt(), txn.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by ID, deleted or not.
func (r *TransactionRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE tenant_id = $1 AND id = $2`
	txn, err := scanTransactionRow(r.pool.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Transaction{}, port.ErrNotFound
	}
	return txn, err
}

// ListByLoan returns the loan's non-deleted transactions ordered by
// effective date, the order the engine replays them in.
func (r *TransactionRepo) ListByLoan(ctx context.Context, tenantID, loanID uuid.UUID) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE tenant_id = $1 AND loan_id = $2 AND deleted_at IS NULL
		ORDER BY effective_date, created_at
	`
	rows, err := r.pool.Query(ctx, query, tenantID, loanID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func scanTransactionRow(s scannable) (model.Transaction, error) {
	var (
		id, tenantID, loanID              uuid.UUID
		typeStr                           string
		amount, principalApp, interestApp decimal.Decimal
		effectiveDate                     time.Time
		reference                         string
		deletedAt                         *time.Time
		createdAt                         time.Time
	)
	err := s.Scan(
		&id, &tenantID, &loanID, &typeStr,
		&amount, &principalApp, &interestApp,
		&effectiveDate, &reference, &deletedAt, &createdAt,
	)
	if err != nil {
		return model.Transaction{}, err
	}

	txType, err := valueobject.NewTransactionType(typeStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parse transaction type: %w", err)
	}

	return model.ReconstructTransaction(
		id, tenantID, loanID, txType,
		amount, principalApp, interestApp,
		effectiveDate, reference, deletedAt, createdAt,
	), nil
}
