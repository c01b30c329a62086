package importcsv

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/http/render"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	session   *session.Session
}

func NewHandler(importSvc *importer.Service, s *session.Session) *Handler {
	return &Handler{importSvc: importSvc, session: s}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/banks", h.banks)
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Parsed   int              `json:"parsed"`
	Imported int              `json:"imported"`
	Views    projection.Views `json:"views"`
}

func (h *Handler) banks(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusOK, h.importSvc.Banks())
}

// importCSV takes a multipart form with a bank field and a file field.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		render.Error(w, fmt.Errorf("%w: failed to parse form: %w", ledger.ErrInvalidInput, err))
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		render.Error(w, fmt.Errorf("%w: bank field is required", ledger.ErrInvalidInput))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Error(w, fmt.Errorf("%w: file field is required", ledger.ErrInvalidInput))
		return
	}
	defer file.Close()

	txs, err := h.importSvc.Parse(bank, file)
	if err != nil {
		render.Error(w, fmt.Errorf("%w: %w", ledger.ErrInvalidInput, err))
		return
	}

	added, views, err := h.session.ImportStatement(r.Context(), txs)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, importResponse{
		Parsed:   len(txs),
		Imported: added,
		Views:    views,
	})
}
