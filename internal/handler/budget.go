package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/budget"
	"github.com/campushub/campushub/internal/chart"
	"github.com/campushub/campushub/internal/model"
	"github.com/campushub/campushub/internal/store"
)

type BudgetHandler struct {
	store  *store.BudgetStore
	logger *slog.Logger
}

func NewBudgetHandler(s *store.BudgetStore, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{store: s, logger: logger}
}

type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

type budgetResponse struct {
	Expenses []model.BudgetExpense `json:"expenses"`
	Summary  budget.Summary        `json:"summary"`
	Chart    []chart.Slice         `json:"chart"`
}

// List returns the caller's expenses together with the category summary
// and pie-chart geometry for the budget view.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}
	if expenses == nil {
		expenses = []model.BudgetExpense{}
	}

	summary := budget.Summarize(expenses)
	values := make([]float64, len(budget.Categories))
	for i, c := range budget.Categories {
		values[i] = summary.Totals[c]
	}

	writeJSON(w, http.StatusOK, budgetResponse{
		Expenses: expenses,
		Summary:  summary,
		Chart:    chart.Pie(budget.Categories, values),
	})
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	switch req.Category {
	case model.CategoryFood, model.CategorySchool, model.CategoryOther:
	default:
		writeError(w, http.StatusBadRequest, "category must be food, school, or other")
		return
	}

	expense, err := h.store.Create(req.Description, req.Amount, req.Category, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add expense")
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	// Expenses are strictly personal, so no admin override here.
	deleted, err := h.store.Delete(id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
