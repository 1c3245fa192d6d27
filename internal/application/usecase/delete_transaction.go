package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/awhitwam/whit-lend-sub010/internal/application/dto"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
)

// DeleteTransactionUseCase soft-deletes a posted transaction and rebuilds
// the schedule without it. The ledger stays append-only; nothing is ever
// removed from storage.
type DeleteTransactionUseCase struct {
	txnRepo port.TransactionRepository
	regen   *RegenerateScheduleUseCase
	now     func() time.Time
}

// NewDeleteTransactionUseCase wires dependencies.
func NewDeleteTransactionUseCase(
	txnRepo port.TransactionRepository,
	regen *RegenerateScheduleUseCase,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		txnRepo: txnRepo,
		regen:   regen,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Execute marks the transaction deleted and regenerates the loan schedule.
func (uc *DeleteTransactionUseCase) Execute(
	ctx context.Context,
	req dto.DeleteTransactionRequest,
) (dto.ScheduleResponse, error) {
	txn, err := uc.txnRepo.FindByID(ctx, req.TenantID, req.TransactionID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find transaction: %w", err)
	}

	release := uc.regen.locker.Acquire(txn.LoanID())
	defer release()

	txn, err = txn.Delete(uc.now())
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("delete transaction: %w", err)
	}
	if err := uc.txnRepo.Save(ctx, txn); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("save transaction: %w", err)
	}

	sched, err := uc.regen.executeLocked(ctx, dto.RegenerateScheduleRequest{
		TenantID: req.TenantID,
		LoanID:   txn.LoanID(),
	})
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("regenerate schedule: %w", err)
	}
	return sched, nil
}
