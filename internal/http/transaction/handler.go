package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/render"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
	"github.com/MrJamesThe3rd/pocket/internal/transaction"
)

type Handler struct {
	session *session.Session
}

func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

func (h *Handler) Routes(r chi.Router) {
	r.Put("/period", h.setPeriod)

	r.Post("/incomes", h.addIncome)
	r.Delete("/incomes/{index}", h.removeIncome)
	r.Post("/expenses", h.addExpense)
	r.Delete("/expenses/{index}", h.removeExpense)

	r.Post("/feed", h.create)
	r.Put("/feed/{index}", h.update)
	r.Delete("/feed/{index}", h.delete)
}

type periodRequest struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (h *Handler) setPeriod(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.SetActivePeriod(r.Context(), req.Year, req.Month)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, views)
}

func (h *Handler) addIncome(w http.ResponseWriter, r *http.Request) {
	var req ledger.Income
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.AddIncome(r.Context(), req)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, views)
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req ledger.Expense
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.AddExpense(r.Context(), req)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, views)
}

func (h *Handler) removeIncome(w http.ResponseWriter, r *http.Request) {
	h.removeAt(w, r, h.session.RemoveIncomeAt)
}

func (h *Handler) removeExpense(w http.ResponseWriter, r *http.Request) {
	h.removeAt(w, r, h.session.RemoveExpenseAt)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req transaction.Input
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.SaveTransaction(r.Context(), req, session.NewRecord)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, views)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	index, err := render.IntParam(r, "index")
	if err != nil {
		render.Error(w, err)
		return
	}

	var req transaction.Input
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.SaveTransaction(r.Context(), req, index)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, views)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	h.removeAt(w, r, h.session.DeleteTransaction)
}

func (h *Handler) removeAt(w http.ResponseWriter, r *http.Request, remove func(ctx context.Context, i int) (projection.Views, error)) {
	index, err := render.IntParam(r, "index")
	if err != nil {
		render.Error(w, err)
		return
	}

	views, err := remove(r.Context(), index)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, views)
}
