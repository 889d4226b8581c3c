package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sukhirthan10/expense-tracker/internal/core/domain"
	"github.com/Sukhirthan10/expense-tracker/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for the expense ledger. All routes
// sit behind the Auth middleware; the owner id always comes from the token,
// never from the payload.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Create handles POST /expenses.
//
// @Summary      Record a new expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createExpenseRequest  true  "Expense details"
// @Success      201   {object}  expenseResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	input := ports.AddExpenseInput{
		OwnerID:  userID,
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
	}
	if req.Date != "" {
		ts, ok := parseDate(req.Date)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be a valid timestamp")
		}
		input.OccurredAt = &ts
	}

	expense, err := h.service.Add(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// List handles GET /expenses.
//
// @Summary      List the caller's expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   expenseResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	expenses, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toExpenseResponse(e))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /expenses/:id.
//
// @Summary      Delete one of the caller's expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense id"
// @Success      200  {object}  deleteExpenseResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteExpenseResponse{Message: "deleted", ID: id})
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID,
		OwnerID:  e.OwnerID,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.OccurredAt,
	}
}
