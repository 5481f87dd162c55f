package roster

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/ctxlog"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/httputil"
)

// Template names rendered by the roster handler.
const (
	TemplateIndex      = "index"
	TemplateVisualizar = "visualizar"
)

// Renderer renders a named page template.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// Handler handles HTTP requests for the roster module.
type Handler struct {
	service  *Service
	renderer Renderer
}

// NewHandler creates a new roster handler.
func NewHandler(service *Service, renderer Renderer) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
	}
}

// RegisterRoutes registers roster routes. All of them require an authenticated session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/visualizar", h.Visualizar)
	r.Post("/cadastro", h.Create)
	r.Get("/remover/{id}", h.Delete)
}

// IndexPage is the data passed to the index template.
type IndexPage struct {
	Entries []EntryView
}

// VisualizarPage is the data passed to the month overview template.
type VisualizarPage struct {
	CurrentMonth []EntryView
	NextMonth    []EntryView
	Upcoming     []EntryView
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		httputil.ServerError(r.Context(), w, "list entries", err)
		return
	}

	h.render(w, r, TemplateIndex, IndexPage{Entries: entries})
}

// Visualizar handles GET /visualizar.
func (h *Handler) Visualizar(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Month(r.Context())
	if err != nil {
		httputil.ServerError(r.Context(), w, "month views", err)
		return
	}

	h.render(w, r, TemplateVisualizar, VisualizarPage(views))
}

// Create handles POST /cadastro.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.Text(w, http.StatusBadRequest, "invalid form")
		return
	}

	input := CreateEntryInput{
		Name:      r.PostForm.Get("nome"),
		City:      r.PostForm.Get("cidade"),
		EntryDate: r.PostForm.Get("dataEntrada"),
		EntryTime: r.PostForm.Get("entrada"),
		ExitDate:  r.PostForm.Get("dataSaida"),
		ExitTime:  r.PostForm.Get("saida"),
		Kind:      r.PostForm.Get("tipo"),
	}

	if _, err := h.service.Create(r.Context(), input); err != nil {
		httputil.ServerError(r.Context(), w, "create entry", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete handles GET /remover/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		// A non-numeric ID cannot match any row.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.ServerError(r.Context(), w, "delete entry", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.renderer.Render(w, http.StatusOK, name, data); err != nil {
		ctxlog.FromContext(r.Context()).Error("render template", "template", name, "error", err)
	}
}
