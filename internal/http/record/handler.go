package record

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/render"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

// Handler serves the records outside the budget periods: goals, accounts,
// bills, the credit card, categories, the user and the shopping list.
type Handler struct {
	session *session.Session
}

func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Post("/", h.addGoal)
		r.Delete("/{index}", h.byIndex(h.session.DeleteGoal))
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.saveAccount)
		r.Put("/{index}", h.saveAccount)
		r.Delete("/{index}", h.byIndex(h.session.DeleteAccount))
	})

	r.Route("/bills", func(r chi.Router) {
		r.Post("/", h.saveBill)
		r.Put("/{index}", h.saveBill)
		r.Delete("/{index}", h.byIndex(h.session.DeleteBill))
		r.Post("/{index}/toggle", h.byIndex(h.session.ToggleBillPaid))
	})

	r.Put("/card", h.setCard)
	r.Patch("/user", h.updateUser)

	r.Route("/categories/{kind}", func(r chi.Router) {
		r.Post("/", h.addCategory)
		r.Delete("/{index}", h.deleteCategory)
	})

	r.Route("/shopping", func(r chi.Router) {
		r.Post("/products", h.addProduct)
		r.Delete("/products/{name}", h.deleteProduct)
		r.Put("/products/{name}/folder", h.moveProduct)
		r.Post("/folders", h.createFolder)
		r.Delete("/folders/{id}", h.deleteFolder)
	})
}

func (h *Handler) addGoal(w http.ResponseWriter, r *http.Request) {
	var req ledger.Goal
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.AddGoal(r.Context(), req)
	respond(w, http.StatusCreated, views, err)
}

func (h *Handler) saveAccount(w http.ResponseWriter, r *http.Request) {
	index, status, err := indexOrNew(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req ledger.Account
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.SaveAccount(r.Context(), req, index)
	respond(w, status, views, err)
}

func (h *Handler) saveBill(w http.ResponseWriter, r *http.Request) {
	index, status, err := indexOrNew(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	var req ledger.Bill
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.SaveBill(r.Context(), req, index)
	respond(w, status, views, err)
}

func (h *Handler) setCard(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreditCard
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.SetCreditCard(r.Context(), req)
	respond(w, http.StatusOK, views, err)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req ledger.User
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.UpdateUser(r.Context(), req)
	respond(w, http.StatusOK, views, err)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	kind := ledger.CategoryKind(chi.URLParam(r, "kind"))
	views, err := h.session.AddCategory(r.Context(), kind, req.Name)
	respond(w, http.StatusCreated, views, err)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	index, err := render.IntParam(r, "index")
	if err != nil {
		render.Error(w, err)
		return
	}

	kind := ledger.CategoryKind(chi.URLParam(r, "kind"))
	views, err := h.session.DeleteCategory(r.Context(), kind, index)
	respond(w, http.StatusOK, views, err)
}

// byIndex serves routes that run an intent on the record at {index}.
func (h *Handler) byIndex(fn func(ctx context.Context, i int) (projection.Views, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := render.IntParam(r, "index")
		if err != nil {
			render.Error(w, err)
			return
		}

		views, err := fn(r.Context(), index)
		respond(w, http.StatusOK, views, err)
	}
}

// respond writes the views built by the intent, or err when it failed.
func respond(w http.ResponseWriter, status int, views projection.Views, err error) {
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, status, views)
}

// indexOrNew reads the optional {index} parameter. Without one the request
// creates a record.
func indexOrNew(r *http.Request) (int, int, error) {
	if chi.URLParam(r, "index") == "" {
		return session.NewRecord, http.StatusCreated, nil
	}

	index, err := render.IntParam(r, "index")
	if err != nil {
		return 0, 0, err
	}

	return index, http.StatusOK, nil
}
