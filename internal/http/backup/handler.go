package backup

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocket/internal/backup"
	"github.com/MrJamesThe3rd/pocket/internal/http/render"
	"github.com/MrJamesThe3rd/pocket/internal/ledger"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

// formMemory is how much of a multipart upload is kept in memory.
const formMemory = 1 << 20

type Handler struct {
	session *session.Session
	svc     *backup.Service
}

func NewHandler(s *session.Session, svc *backup.Service) *Handler {
	return &Handler{session: s, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/", h.restore)
	r.Post("/snapshots", h.snapshot)
	r.Get("/snapshots", h.list)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	blob, filename, err := h.session.Export(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))

	if _, err := w.Write(blob); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

// restore imports a backup sent either as the raw request body or as the
// "file" field of a multipart form.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxSize()+formMemory)

	body, closeBody, err := h.upload(r)
	if err != nil {
		render.Error(w, err)
		return
	}
	defer closeBody()

	blob, err := h.svc.Decode(body)
	if err != nil {
		render.Error(w, err)
		return
	}

	views, err := h.session.Import(r.Context(), blob)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, views)
}

func (h *Handler) upload(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(formMemory); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to parse form: %w", ledger.ErrInvalidInput, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing file", ledger.ErrInvalidInput)
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s", backup.ErrNotJSON, header.Filename)
	}

	return file, func() { file.Close() }, nil
}

type snapshotResponse struct {
	Path string `json:"path"`
}

// snapshot writes the current backup into the server's backup directory.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	blob, filename, err := h.session.Export(r.Context())
	if err != nil {
		render.Error(w, err)
		return
	}

	path, err := h.svc.Write(blob, filename)
	if err != nil {
		render.Error(w, err)
		return
	}

	slog.Info("backup written", "path", path)
	render.JSON(w, http.StatusCreated, snapshotResponse{Path: path})
}

type entryResponse struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	ModTime string `json:"modTime"`
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	entries, err := h.svc.List()
	if err != nil {
		render.Error(w, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryResponse{Name: e.Name, Size: e.Size, ModTime: e.ModTime.UTC().Format(time.RFC3339)})
	}

	render.JSON(w, http.StatusOK, resp)
}
