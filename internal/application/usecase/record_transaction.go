package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/awhitwam/whit-lend-sub010/internal/application/dto"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/event"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// RecordTransactionUseCase posts a ledger transaction and regenerates the
// loan's schedule in the same per-loan critical section, so the schedule a
// caller reads back always reflects the posting.
type RecordTransactionUseCase struct {
	loanRepo  port.LoanRepository
	txnRepo   port.TransactionRepository
	publisher port.EventPublisher
	regen     *RegenerateScheduleUseCase
	now       func() time.Time
}

// NewRecordTransactionUseCase wires dependencies.
func NewRecordTransactionUseCase(
	loanRepo port.LoanRepository,
	txnRepo port.TransactionRepository,
	publisher port.EventPublisher,
	regen *RegenerateScheduleUseCase,
) *RecordTransactionUseCase {
	return &RecordTransactionUseCase{
		loanRepo:  loanRepo,
		txnRepo:   txnRepo,
		publisher: publisher,
		regen:     regen,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Execute validates, saves the transaction and rebuilds the schedule.
func (uc *RecordTransactionUseCase) Execute(
	ctx context.Context,
	req dto.RecordTransactionRequest,
) (dto.TransactionResponse, dto.ScheduleResponse, error) {
	release := uc.regen.locker.Acquire(req.LoanID)
	defer release()

	now := uc.now()

	loan, err := uc.loanRepo.FindByID(ctx, req.TenantID, req.LoanID)
	if err != nil {
		return dto.TransactionResponse{}, dto.ScheduleResponse{}, fmt.Errorf("find loan: %w", err)
	}

	txType, err := valueobject.NewTransactionType(req.Type)
	if err != nil {
		return dto.TransactionResponse{}, dto.ScheduleResponse{}, err
	}

	txn, err := model.NewTransaction(
		req.TenantID, loan.ID(),
		txType,
		req.Amount, req.PrincipalApplied, req.InterestApplied,
		req.EffectiveDate, req.Reference, now,
	)
	if err != nil {
		return dto.TransactionResponse{}, dto.ScheduleResponse{}, fmt.Errorf("new transaction: %w", err)
	}

	if err := uc.txnRepo.Save(ctx, txn); err != nil {
		return dto.TransactionResponse{}, dto.ScheduleResponse{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewTransactionRecorded(
		loan.ID(), loan.TenantID(), txn.ID(),
		txn.Type().String(),
		txn.Amount(), txn.PrincipalApplied(), txn.InterestApplied(),
		txn.EffectiveDate(),
	)); err != nil {
		return dto.TransactionResponse{}, dto.ScheduleResponse{}, fmt.Errorf("publish events: %w", err)
	}

	sched, err := uc.regen.executeLocked(ctx, dto.RegenerateScheduleRequest{
		TenantID: req.TenantID,
		LoanID:   req.LoanID,
	})
	if err != nil {
		return dto.TransactionResponse{}, dto.ScheduleResponse{}, fmt.Errorf("regenerate schedule: %w", err)
	}

	return toTransactionResponse(txn), sched, nil
}
