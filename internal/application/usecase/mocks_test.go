package usecase_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/event"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
)

type mockLoanRepository struct {
	saveFunc     func(ctx context.Context, loan model.Loan) error
	findByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (model.Loan, error)
	savedLoans   []model.Loan
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.Loan{}, port.ErrLoanNotFound
}

func (m *mockLoanRepository) FindByBorrowerID(ctx context.Context, tenantID, borrowerID uuid.UUID) ([]model.Loan, error) {
	return nil, nil
}

type mockProductRepository struct {
	findByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error)
	savedProducts []model.LoanProduct
}

func (m *mockProductRepository) Save(ctx context.Context, product model.LoanProduct) error {
	m.savedProducts = append(m.savedProducts, product)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.LoanProduct, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.LoanProduct{}, port.ErrProductNotFound
}

type mockTransactionRepository struct {
	transactions []model.Transaction
	saveFunc     func(ctx context.Context, txn model.Transaction) error
}

func (m *mockTransactionRepository) Save(ctx context.Context, txn model.Transaction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, txn)
	}
	// Save doubles as update for soft-deletes.
	for i := range m.transactions {
		if m.transactions[i].ID() == txn.ID() {
			m.transactions[i] = txn
			return nil
		}
	}
	m.transactions = append(m.transactions, txn)
	return nil
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (model.Transaction, error) {
	for _, txn := range m.transactions {
		if txn.ID() == id {
			return txn, nil
		}
	}
	return model.Transaction{}, port.ErrNotFound
}

func (m *mockTransactionRepository) ListByLoan(ctx context.Context, tenantID, loanID uuid.UUID) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, txn := range m.transactions {
		if txn.LoanID() == loanID && !txn.IsDeleted() {
			out = append(out, txn)
		}
	}
	return out, nil
}

type mockScheduleRepository struct {
	replaceFunc  func(ctx context.Context, loan model.Loan, rows []model.ScheduleRow) error
	replacedWith [][]model.ScheduleRow
	updatedLoans []model.Loan
}

func (m *mockScheduleRepository) Replace(ctx context.Context, loan model.Loan, rows []model.ScheduleRow) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, loan, rows)
	}
	m.replacedWith = append(m.replacedWith, rows)
	m.updatedLoans = append(m.updatedLoans, loan)
	return nil
}

func (m *mockScheduleRepository) ListByLoan(ctx context.Context, tenantID, loanID uuid.UUID) ([]model.ScheduleRow, error) {
	if len(m.replacedWith) == 0 {
		return nil, nil
	}
	return m.replacedWith[len(m.replacedWith)-1], nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}

func (m *mockEventPublisher) eventTypes() []string {
	var out []string
	for _, ev := range m.publishedEvents {
		out = append(out, ev.EventType())
	}
	return out
}

var errBoom = fmt.Errorf("boom")
