package usecase

import (
	"github.com/awhitwam/whit-lend-sub010/internal/application/dto"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
)

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	return dto.LoanResponse{
		ID:                loan.ID(),
		TenantID:          loan.TenantID(),
		ProductID:         loan.ProductID(),
		BorrowerID:        loan.BorrowerID(),
		Principal:         loan.Principal(),
		Currency:          loan.Currency(),
		StartDate:         loan.StartDate(),
		Duration:          loan.DurationPeriods(),
		AnnualRatePct:     loan.AnnualRatePct(),
		InterestType:      loan.InterestType().String(),
		BillingPeriod:     loan.BillingPeriod().String(),
		InterestAlignment: loan.InterestAlignment().String(),
		CalculationMethod: loan.CalculationMethod().String(),
		AutoExtend:        loan.AutoExtend(),
		ExitFee:           loan.ExitFee(),
		TotalInterest:     loan.TotalInterest(),
		TotalRepayable:    loan.TotalRepayable(),
		CreatedAt:         loan.CreatedAt(),
		UpdatedAt:         loan.UpdatedAt(),
	}
}

func toScheduleRowResponses(rows []model.ScheduleRow) []dto.ScheduleRowResponse {
	out := make([]dto.ScheduleRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ScheduleRowResponse{
			Installment:               row.Installment,
			DueDate:                   row.DueDate,
			PrincipalAmount:           row.PrincipalAmount,
			InterestAmount:            row.InterestAmount,
			TotalDue:                  row.TotalDue,
			Balance:                   row.Balance,
			CalculationDays:           row.CalculationDays,
			CalculationPrincipalStart: row.CalculationPrincipalStart,
			Status:                    row.Status.String(),
		})
	}
	return out
}

func toTransactionResponse(txn model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:               txn.ID(),
		LoanID:           txn.LoanID(),
		Type:             txn.Type().String(),
		Amount:           txn.Amount(),
		PrincipalApplied: txn.PrincipalApplied(),
		InterestApplied:  txn.InterestApplied(),
		EffectiveDate:    txn.EffectiveDate(),
		Reference:        txn.Reference(),
		CreatedAt:        txn.CreatedAt(),
	}
}

func toProductResponse(p model.LoanProduct) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID(),
		TenantID:          p.TenantID(),
		Name:              p.Name(),
		AnnualRatePct:     p.AnnualRatePct(),
		InterestType:      p.InterestType().String(),
		BillingPeriod:     p.BillingPeriod().String(),
		InterestAlignment: p.InterestAlignment().String(),
		CalculationMethod: p.CalculationMethod().String(),
		DefaultDuration:   p.DefaultDuration(),
		AutoExtend:        p.AutoExtend(),
		ExitFee:           p.ExitFee(),
		CreatedAt:         p.CreatedAt(),
	}
}
