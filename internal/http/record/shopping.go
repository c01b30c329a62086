package record

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/render"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
)

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req ledger.Product
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.AddProduct(r.Context(), req)
	respond(w, http.StatusCreated, views, err)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	views, err := h.session.DeleteProduct(r.Context(), chi.URLParam(r, "name"))
	respond(w, http.StatusOK, views, err)
}

type moveRequest struct {
	FolderID *int64 `json:"folderId"`
}

func (h *Handler) moveProduct(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.MoveProduct(r.Context(), chi.URLParam(r, "name"), req.FolderID)
	respond(w, http.StatusOK, views, err)
}

type folderRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, err)
		return
	}

	_, views, err := h.session.CreateFolder(r.Context(), req.Name)
	respond(w, http.StatusCreated, views, err)
}

func (h *Handler) deleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Error(w, fmt.Errorf("%w: id must be a number", ledger.ErrInvalidInput))
		return
	}

	views, err := h.session.DeleteFolder(r.Context(), id)
	respond(w, http.StatusOK, views, err)
}
