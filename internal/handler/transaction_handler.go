package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// TransactionHandler handles ledger HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	OccurredOn  string  `json:"occurredOn"`
	CategoryID  *string `json:"categoryId,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Amount       string  `json:"amount"`
	OccurredOn   string  `json:"occurredOn"`
	CategoryID   *string `json:"categoryId,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
	Description  *string `json:"description,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		Type:        string(t.Type),
		Amount:      t.Amount.String(),
		OccurredOn:  t.OccurredOn.Format(dateLayout),
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Format(timeLayout),
		UpdatedAt:   t.UpdatedAt.Format(timeLayout),
	}
	if t.CategoryID != nil {
		id := t.CategoryID.String()
		resp.CategoryID = &id
	}
	return resp
}

func toTransactionWithCategoryResponse(t *domain.TransactionWithCategory) TransactionResponse {
	resp := toTransactionResponse(&t.Transaction)
	name := t.CategoryName
	resp.CategoryName = &name
	return resp
}

// CreateTransaction records a new income or expense entry
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	occurredOn, err := time.Parse(dateLayout, req.OccurredOn)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "occurredOn", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		parsed, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return NewValidationError(c, "Invalid category", []ValidationError{
				{Field: "categoryId", Message: "Must be a valid UUID"},
			})
		}
		categoryID = &parsed
	}

	input := service.CreateTransactionInput{
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		OccurredOn:  occurredOn,
		CategoryID:  categoryID,
		Description: req.Description,
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: income, expense"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must not be negative"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// UpdateTransactionRequest represents the update transaction request
// body. Omitted fields are left unchanged; clearCategory removes the
// category link.
type UpdateTransactionRequest struct {
	Type          *string `json:"type,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	OccurredOn    *string `json:"occurredOn,omitempty"`
	CategoryID    *string `json:"categoryId,omitempty"`
	ClearCategory bool    `json:"clearCategory,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// UpdateTransaction applies a partial update to an owned transaction
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateTransactionData{
		ClearCategory: req.ClearCategory,
		Description:   req.Description,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		data.Type = &t
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		data.Amount = &amount
	}
	if req.OccurredOn != nil {
		occurredOn, err := time.Parse(dateLayout, *req.OccurredOn)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "occurredOn", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		data.OccurredOn = &occurredOn
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return NewValidationError(c, "Invalid category", []ValidationError{
				{Field: "categoryId", Message: "Must be a valid UUID"},
			})
		}
		data.CategoryID = &categoryID
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, data)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: income, expense"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must not be negative"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		if errors.Is(err, domain.ErrCategoryMismatch) {
			return NewValidationError(c, err.Error(), []ValidationError{
				{Field: "categoryId", Message: "Category does not apply to the transaction type"},
			})
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction removes an owned transaction
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// FilterTransactionsRequest represents the filter request body. All
// filters are optional and combine with AND.
type FilterTransactionsRequest struct {
	Type         *string `json:"type,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	Page         int32   `json:"page"`
	Limit        int32   `json:"limit"`
}

// FilterTransactionsResponse represents a page of matching transactions
type FilterTransactionsResponse struct {
	Total        int64                 `json:"total"`
	Page         int32                 `json:"page"`
	Limit        int32                 `json:"limit"`
	TotalPages   int32                 `json:"totalPages"`
	Transactions []TransactionResponse `json:"transactions"`
}

// FilterTransactions returns a filtered, paginated page of the ledger
func (h *TransactionHandler) FilterTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req FilterTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	filters := &domain.TransactionFilters{
		CategoryName: req.CategoryName,
		Page:         req.Page,
		PageSize:     req.Limit,
	}
	if req.Type != nil && *req.Type != "" {
		t := domain.TransactionType(*req.Type)
		filters.Type = &t
	}
	if req.StartDate != nil && *req.StartDate != "" {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = &start
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = &end
	}

	page, err := h.transactionService.QueryTransactions(userID, filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: income, expense"},
			})
		}
		log.Error().Err(err).Msg("Failed to filter transactions")
		return NewInternalError(c, "Failed to filter transactions")
	}

	transactions := make([]TransactionResponse, 0, len(page.Data))
	for _, t := range page.Data {
		transactions = append(transactions, toTransactionWithCategoryResponse(t))
	}

	return c.JSON(http.StatusOK, FilterTransactionsResponse{
		Total:        page.TotalItems,
		Page:         page.Page,
		Limit:        page.PageSize,
		TotalPages:   page.TotalPages,
		Transactions: transactions,
	})
}

// CategorySummaryResponse is a per-category income/expense pair
type CategorySummaryResponse struct {
	Category string `json:"category"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
}

// SummaryByCategory aggregates one month of the ledger per category
func (h *TransactionHandler) SummaryByCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 1 {
		return NewValidationError(c, "Invalid year", []ValidationError{
			{Field: "year", Message: "Must be a positive integer"},
		})
	}
	monthNum, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be between 1 and 12"},
		})
	}
	month := fmt.Sprintf("%04d-%02d", year, monthNum)

	summaries, err := h.transactionService.SummaryByCategory(userID, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Invalid month", nil)
		}
		log.Error().Err(err).Msg("Failed to build category summary")
		return NewInternalError(c, "Failed to build category summary")
	}

	resp := make([]CategorySummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, CategorySummaryResponse{
			Category: s.Category,
			Income:   s.Income.String(),
			Expense:  s.Expense.String(),
		})
	}
	return c.JSON(http.StatusOK, resp)
}
