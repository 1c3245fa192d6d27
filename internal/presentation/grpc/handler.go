package grpc

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/awhitwam/whit-lend-sub010/internal/application/dto"
	"github.com/awhitwam/whit-lend-sub010/internal/application/usecase"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/port"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/schedule"
	"github.com/awhitwam/whit-lend-sub010/pkg/auth"
)

const dateLayout = "2006-01-02"

var currencyCodeRE = regexp.MustCompile(`^[A-Z]{3}$`)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// tenantIDFromContext extracts the tenant ID from JWT claims in the context.
func tenantIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.TenantID, nil
}

// mapUseCaseError translates use case failures into gRPC status codes.
// Repository sentinels become NotFound; engine validation failures become
// FailedPrecondition; anything else stays opaque.
func mapUseCaseError(err error) error {
	switch {
	case errors.Is(err, port.ErrLoanNotFound),
		errors.Is(err, port.ErrProductNotFound),
		errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, schedule.ErrInvalidPrincipal),
		errors.Is(err, schedule.ErrInvalidDuration):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// Compile-time assertion that LedgerServiceHandler implements LedgerServiceServer.
var _ LedgerServiceServer = (*LedgerServiceHandler)(nil)

// LedgerServiceHandler implements the gRPC LedgerServiceServer interface.
type LedgerServiceHandler struct {
	UnimplementedLedgerServiceServer
	createProductUC *usecase.CreateProductUseCase
	originateUC     *usecase.OriginateLoanUseCase
	regenerateUC    *usecase.RegenerateScheduleUseCase
	recordTxnUC     *usecase.RecordTransactionUseCase
	deleteTxnUC     *usecase.DeleteTransactionUseCase
	getLoanUC       *usecase.GetLoanUseCase
	getScheduleUC   *usecase.GetScheduleUseCase
}

// NewLedgerServiceHandler creates a new LedgerServiceHandler.
func NewLedgerServiceHandler(
	createProductUC *usecase.CreateProductUseCase,
	originateUC *usecase.OriginateLoanUseCase,
	regenerateUC *usecase.RegenerateScheduleUseCase,
	recordTxnUC *usecase.RecordTransactionUseCase,
	deleteTxnUC *usecase.DeleteTransactionUseCase,
	getLoanUC *usecase.GetLoanUseCase,
	getScheduleUC *usecase.GetScheduleUseCase,
) *LedgerServiceHandler {
	return &LedgerServiceHandler{
		createProductUC: createProductUC,
		originateUC:     originateUC,
		regenerateUC:    regenerateUC,
		recordTxnUC:     recordTxnUC,
		deleteTxnUC:     deleteTxnUC,
		getLoanUC:       getLoanUC,
		getScheduleUC:   getScheduleUC,
	}
}

// Proto-aligned request/response message types.

// ProductMsg represents the proto LoanProduct message.
type ProductMsg struct {
	ID                string `json:"id"`
	TenantID          string `json:"tenant_id"`
	Name              string `json:"name"`
	AnnualRatePct     string `json:"annual_rate_pct"`
	InterestType      string `json:"interest_type"`
	BillingPeriod     string `json:"billing_period"`
	InterestAlignment string `json:"interest_alignment"`
	CalculationMethod string `json:"calculation_method"`
	DefaultDuration   int32  `json:"default_duration"`
	AutoExtend        bool   `json:"auto_extend"`
	ExitFee           string `json:"exit_fee"`
	CreatedAt         string `json:"created_at"`
}

// LoanMsg represents the proto Loan message.
type LoanMsg struct {
	ID                string `json:"id"`
	TenantID          string `json:"tenant_id"`
	ProductID         string `json:"product_id"`
	BorrowerID        string `json:"borrower_id"`
	Principal         string `json:"principal"`
	Currency          string `json:"currency"`
	StartDate         string `json:"start_date"`
	Duration          int32  `json:"duration"`
	AnnualRatePct     string `json:"annual_rate_pct"`
	InterestType      string `json:"interest_type"`
	BillingPeriod     string `json:"billing_period"`
	InterestAlignment string `json:"interest_alignment"`
	CalculationMethod string `json:"calculation_method"`
	AutoExtend        bool   `json:"auto_extend"`
	ExitFee           string `json:"exit_fee"`
	TotalInterest     string `json:"total_interest"`
	TotalRepayable    string `json:"total_repayable"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// ScheduleRowMsg represents the proto ScheduleRow message.
type ScheduleRowMsg struct {
	Installment               int32  `json:"installment"`
	DueDate                   string `json:"due_date"`
	PrincipalAmount           string `json:"principal_amount"`
	InterestAmount            string `json:"interest_amount"`
	TotalDue                  string `json:"total_due"`
	Balance                   string `json:"balance"`
	CalculationDays           string `json:"calculation_days"`
	CalculationPrincipalStart string `json:"calculation_principal_start"`
	Status                    string `json:"status"`
}

// ScheduleSummaryMsg represents the proto ScheduleSummary message.
type ScheduleSummaryMsg struct {
	TotalInterest  string `json:"total_interest"`
	TotalRepayable string `json:"total_repayable"`
	Outstanding    string `json:"outstanding"`
	Duration       int32  `json:"duration"`
}

// TransactionMsg represents the proto LedgerTransaction message.
type TransactionMsg struct {
	ID               string `json:"id"`
	LoanID           string `json:"loan_id"`
	Type             string `json:"type"`
	Amount           string `json:"amount"`
	PrincipalApplied string `json:"principal_applied"`
	InterestApplied  string `json:"interest_applied"`
	EffectiveDate    string `json:"effective_date"`
	Reference        string `json:"reference,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type CreateProductRequest struct {
	Name              string `json:"name"`
	AnnualRatePct     string `json:"annual_rate_pct"`
	InterestType      string `json:"interest_type"`
	BillingPeriod     string `json:"billing_period"`
	InterestAlignment string `json:"interest_alignment"`
	CalculationMethod string `json:"calculation_method"`
	DefaultDuration   int32  `json:"default_duration"`
	AutoExtend        bool   `json:"auto_extend"`
	ExitFee           string `json:"exit_fee"`
}

type CreateProductResponse struct {
	Product *ProductMsg `json:"product"`
}

type OriginateLoanRequest struct {
	ProductID  string `json:"product_id"`
	BorrowerID string `json:"borrower_id"`
	Principal  string `json:"principal"`
	Currency   string `json:"currency"`
	StartDate  string `json:"start_date"`
	Duration   int32  `json:"duration,omitempty"`
	AutoExtend bool   `json:"auto_extend,omitempty"`
}

type OriginateLoanResponse struct {
	Loan     *LoanMsg            `json:"loan"`
	Schedule []*ScheduleRowMsg   `json:"schedule"`
	Summary  *ScheduleSummaryMsg `json:"summary"`
}

type RegenerateScheduleRequest struct {
	LoanID           string `json:"loan_id"`
	Duration         int32  `json:"duration,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	SkipDisbursement bool   `json:"skip_disbursement,omitempty"`
}

type RegenerateScheduleResponse struct {
	Loan     *LoanMsg            `json:"loan"`
	Schedule []*ScheduleRowMsg   `json:"schedule"`
	Summary  *ScheduleSummaryMsg `json:"summary"`
}

type RecordTransactionRequest struct {
	LoanID           string `json:"loan_id"`
	Type             string `json:"type"`
	Amount           string `json:"amount"`
	PrincipalApplied string `json:"principal_applied,omitempty"`
	InterestApplied  string `json:"interest_applied,omitempty"`
	EffectiveDate    string `json:"effective_date"`
	Reference        string `json:"reference,omitempty"`
}

type RecordTransactionResponse struct {
	Transaction *TransactionMsg     `json:"transaction"`
	Loan        *LoanMsg            `json:"loan"`
	Schedule    []*ScheduleRowMsg   `json:"schedule"`
	Summary     *ScheduleSummaryMsg `json:"summary"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type DeleteTransactionResponse struct {
	Loan     *LoanMsg            `json:"loan"`
	Schedule []*ScheduleRowMsg   `json:"schedule"`
	Summary  *ScheduleSummaryMsg `json:"summary"`
}

type GetLoanRequest struct {
	ID string `json:"id"`
}

type GetLoanResponse struct {
	Loan *LoanMsg `json:"loan"`
}

type GetScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

type GetScheduleResponse struct {
	Loan     *LoanMsg            `json:"loan"`
	Schedule []*ScheduleRowMsg   `json:"schedule"`
	Summary  *ScheduleSummaryMsg `json:"summary"`
}

// CreateProduct handles the gRPC request to create a loan product template.
func (h *LedgerServiceHandler) CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator); err != nil {
		return nil, err
	}
	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	rate, err := decimal.NewFromString(req.AnnualRatePct)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid annual_rate_pct: %v", err)
	}
	exitFee := decimal.Zero
	if req.ExitFee != "" {
		exitFee, err = decimal.NewFromString(req.ExitFee)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid exit_fee: %v", err)
		}
	}

	resp, err := h.createProductUC.Execute(ctx, dto.CreateProductRequest{
		TenantID:          tenantID,
		Name:              req.Name,
		AnnualRatePct:     rate,
		InterestType:      req.InterestType,
		BillingPeriod:     req.BillingPeriod,
		InterestAlignment: req.InterestAlignment,
		CalculationMethod: req.CalculationMethod,
		DefaultDuration:   int(req.DefaultDuration),
		AutoExtend:        req.AutoExtend,
		ExitFee:           exitFee,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	return &CreateProductResponse{Product: toProductMsg(resp)}, nil
}

// OriginateLoan handles the gRPC request to create a loan and its first schedule.
func (h *LedgerServiceHandler) OriginateLoan(ctx context.Context, req *OriginateLoanRequest) (*OriginateLoanResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product_id: %v", err)
	}
	borrowerID, err := uuid.Parse(req.BorrowerID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid borrower_id: %v", err)
	}
	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid principal: %v", err)
	}
	if !principal.IsPositive() {
		return nil, status.Error(codes.InvalidArgument, "principal must be positive")
	}
	if !currencyCodeRE.MatchString(req.Currency) {
		return nil, status.Error(codes.InvalidArgument, "currency must be a 3-letter uppercase ISO code")
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid start_date: %v", err)
	}

	resp, err := h.originateUC.Execute(ctx, dto.OriginateLoanRequest{
		TenantID:   tenantID,
		ProductID:  productID,
		BorrowerID: borrowerID,
		Principal:  principal,
		Currency:   req.Currency,
		StartDate:  startDate,
		Duration:   int(req.Duration),
		AutoExtend: req.AutoExtend,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	loan, rows, summary := toScheduleMsgs(resp)
	return &OriginateLoanResponse{Loan: loan, Schedule: rows, Summary: summary}, nil
}

// RegenerateSchedule handles the gRPC request to rebuild a loan's schedule.
func (h *LedgerServiceHandler) RegenerateSchedule(ctx context.Context, req *RegenerateScheduleRequest) (*RegenerateScheduleResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid loan_id: %v", err)
	}
	var endDate *time.Time
	if req.EndDate != "" {
		d, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid end_date: %v", err)
		}
		endDate = &d
	}

	resp, err := h.regenerateUC.Execute(ctx, dto.RegenerateScheduleRequest{
		TenantID:         tenantID,
		LoanID:           loanID,
		Duration:         int(req.Duration),
		EndDate:          endDate,
		SkipDisbursement: req.SkipDisbursement,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	loan, rows, summary := toScheduleMsgs(resp)
	return &RegenerateScheduleResponse{Loan: loan, Schedule: rows, Summary: summary}, nil
}

// RecordTransaction handles the gRPC request to post a ledger transaction.
// The schedule in the response is the rebuilt one.
func (h *LedgerServiceHandler) RecordTransaction(ctx context.Context, req *RecordTransactionRequest) (*RecordTransactionResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid loan_id: %v", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}
	principalApplied := decimal.Zero
	if req.PrincipalApplied != "" {
		principalApplied, err = decimal.NewFromString(req.PrincipalApplied)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid principal_applied: %v", err)
		}
	}
	interestApplied := decimal.Zero
	if req.InterestApplied != "" {
		interestApplied, err = decimal.NewFromString(req.InterestApplied)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid interest_applied: %v", err)
		}
	}
	effectiveDate, err := time.Parse(dateLayout, req.EffectiveDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid effective_date: %v", err)
	}

	txn, sched, err := h.recordTxnUC.Execute(ctx, dto.RecordTransactionRequest{
		TenantID:         tenantID,
		LoanID:           loanID,
		Type:             req.Type,
		Amount:           amount,
		PrincipalApplied: principalApplied,
		InterestApplied:  interestApplied,
		EffectiveDate:    effectiveDate,
		Reference:        req.Reference,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	loan, rows, summary := toScheduleMsgs(sched)
	return &RecordTransactionResponse{
		Transaction: toTransactionMsg(txn),
		Loan:        loan,
		Schedule:    rows,
		Summary:     summary,
	}, nil
}

// DeleteTransaction handles the gRPC request to soft-delete a transaction.
func (h *LedgerServiceHandler) DeleteTransaction(ctx context.Context, req *DeleteTransactionRequest) (*DeleteTransactionResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator); err != nil {
		return nil, err
	}
	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	txnID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid transaction_id: %v", err)
	}

	resp, err := h.deleteTxnUC.Execute(ctx, dto.DeleteTransactionRequest{
		TenantID:      tenantID,
		TransactionID: txnID,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	loan, rows, summary := toScheduleMsgs(resp)
	return &DeleteTransactionResponse{Loan: loan, Schedule: rows, Summary: summary}, nil
}

// GetLoan handles the gRPC request to retrieve loan details.
func (h *LedgerServiceHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*GetLoanResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	resp, err := h.getLoanUC.Execute(ctx, dto.GetLoanRequest{
		TenantID: tenantID,
		LoanID:   loanID,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	return &GetLoanResponse{Loan: toLoanMsg(resp)}, nil
}

// GetSchedule handles the gRPC request to retrieve a loan's persisted schedule.
func (h *LedgerServiceHandler) GetSchedule(ctx context.Context, req *GetScheduleRequest) (*GetScheduleResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid loan_id: %v", err)
	}

	resp, err := h.getScheduleUC.Execute(ctx, dto.GetScheduleRequest{
		TenantID: tenantID,
		LoanID:   loanID,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	loan, rows, summary := toScheduleMsgs(resp)
	return &GetScheduleResponse{Loan: loan, Schedule: rows, Summary: summary}, nil
}

func toProductMsg(r dto.ProductResponse) *ProductMsg {
	return &ProductMsg{
		ID:                r.ID.String(),
		TenantID:          r.TenantID.String(),
		Name:              r.Name,
		AnnualRatePct:     r.AnnualRatePct.String(),
		InterestType:      r.InterestType,
		BillingPeriod:     r.BillingPeriod,
		InterestAlignment: r.InterestAlignment,
		CalculationMethod: r.CalculationMethod,
		DefaultDuration:   int32(r.DefaultDuration),
		AutoExtend:        r.AutoExtend,
		ExitFee:           r.ExitFee.String(),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
}

func toLoanMsg(r dto.LoanResponse) *LoanMsg {
	return &LoanMsg{
		ID:                r.ID.String(),
		TenantID:          r.TenantID.String(),
		ProductID:         r.ProductID.String(),
		BorrowerID:        r.BorrowerID.String(),
		Principal:         r.Principal.String(),
		Currency:          r.Currency,
		StartDate:         r.StartDate.Format(dateLayout),
		Duration:          int32(r.Duration),
		AnnualRatePct:     r.AnnualRatePct.String(),
		InterestType:      r.InterestType,
		BillingPeriod:     r.BillingPeriod,
		InterestAlignment: r.InterestAlignment,
		CalculationMethod: r.CalculationMethod,
		AutoExtend:        r.AutoExtend,
		ExitFee:           r.ExitFee.String(),
		TotalInterest:     r.TotalInterest.String(),
		TotalRepayable:    r.TotalRepayable.String(),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}
}

func toTransactionMsg(r dto.TransactionResponse) *TransactionMsg {
	return &TransactionMsg{
		ID:               r.ID.String(),
		LoanID:           r.LoanID.String(),
		Type:             r.Type,
		Amount:           r.Amount.String(),
		PrincipalApplied: r.PrincipalApplied.String(),
		InterestApplied:  r.InterestApplied.String(),
		EffectiveDate:    r.EffectiveDate.Format(dateLayout),
		Reference:        r.Reference,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
}

func toScheduleMsgs(r dto.ScheduleResponse) (*LoanMsg, []*ScheduleRowMsg, *ScheduleSummaryMsg) {
	rows := make([]*ScheduleRowMsg, 0, len(r.Schedule))
	for _, row := range r.Schedule {
		rows = append(rows, &ScheduleRowMsg{
			Installment:               int32(row.Installment),
			DueDate:                   row.DueDate.Format(dateLayout),
			PrincipalAmount:           row.PrincipalAmount.String(),
			InterestAmount:            row.InterestAmount.String(),
			TotalDue:                  row.TotalDue.String(),
			Balance:                   row.Balance.String(),
			CalculationDays:           row.CalculationDays.String(),
			CalculationPrincipalStart: row.CalculationPrincipalStart.String(),
			Status:                    row.Status,
		})
	}
	summary := &ScheduleSummaryMsg{
		TotalInterest:  r.Summary.TotalInterest.String(),
		TotalRepayable: r.Summary.TotalRepayable.String(),
		Outstanding:    r.Summary.Outstanding.String(),
		Duration:       int32(r.Summary.Duration),
	}
	return toLoanMsg(r.Loan), rows, summary
}
