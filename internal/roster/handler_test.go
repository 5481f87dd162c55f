package roster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/session"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/session/memory"
)

// mockRenderer records the last rendered page.
type mockRenderer struct {
	name  string
	data  any
	calls int
}

func (m *mockRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	m.calls++
	m.name = name
	m.data = data
	w.WriteHeader(status)
	return nil
}

type handlerFixture struct {
	repo     *mockRepository
	renderer *mockRenderer
	sessions *memory.Store
	token    string
	router   chi.Router
}

func newHandlerFixture(t *testing.T, now time.Time, repo *mockRepository) *handlerFixture {
	t.Helper()
	store := memory.New(time.Hour)
	t.Cleanup(store.Close)

	token, err := store.Create(context.Background(), "1")
	require.NoError(t, err)

	f := &handlerFixture{
		repo:     repo,
		renderer: &mockRenderer{},
		sessions: store,
		token:    token,
		router:   chi.NewRouter(),
	}

	manager := session.NewManager(store, session.CookieSettings{TTL: time.Hour})
	handler := NewHandler(newTestService(repo, now), f.renderer)
	f.router.Group(func(r chi.Router) {
		r.Use(manager.Gate)
		handler.RegisterRoutes(r)
	})
	return f
}

func (f *handlerFixture) do(req *http.Request, authenticated bool) *httptest.ResponseRecorder {
	if authenticated {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: f.token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_UnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	repo := newMockRepository(entry(1, date(2024, 3, 2)))
	f := newHandlerFixture(t, time.Now(), repo)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/", nil),
		httptest.NewRequest(http.MethodGet, "/visualizar", nil),
		httptest.NewRequest(http.MethodPost, "/cadastro", strings.NewReader("nome=x")),
		httptest.NewRequest(http.MethodGet, "/remover/1", nil),
	}

	for _, req := range requests {
		rec := f.do(req, false)

		assert.Equal(t, http.StatusSeeOther, rec.Code, req.URL.Path)
		assert.Equal(t, session.LoginPath, rec.Header().Get("Location"), req.URL.Path)
		assert.NotContains(t, rec.Body.String(), "Plantonista", req.URL.Path)
	}

	assert.Empty(t, repo.calls, "no store query for denied requests")
	assert.Zero(t, f.renderer.calls)
}

func TestHandler_IndexListsNewestFirst(t *testing.T) {
	repo := newMockRepository(
		entry(1, date(2024, 1, 10)),
		entry(2, date(2024, 3, 10)),
		entry(3, date(2024, 2, 10)),
	)
	f := newHandlerFixture(t, time.Now(), repo)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, TemplateIndex, f.renderer.name)
	page, ok := f.renderer.data.(IndexPage)
	require.True(t, ok)
	assert.Equal(t, []int64{2, 3, 1}, ids(page.Entries))
	assert.Equal(t, "10 de março de 2024", page.Entries[0].EntryDate)
}

func TestHandler_VisualizarScenario(t *testing.T) {
	repo := newMockRepository(
		entry(1, date(2024, 3, 2)),
		entry(2, date(2024, 3, 15)),
		entry(3, date(2024, 4, 1)),
	)
	f := newHandlerFixture(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), repo)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/visualizar", nil), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, TemplateVisualizar, f.renderer.name)
	page, ok := f.renderer.data.(VisualizarPage)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2}, ids(page.CurrentMonth))
	assert.Equal(t, []int64{2}, ids(page.Upcoming))
	assert.Equal(t, []int64{3}, ids(page.NextMonth))
}

func TestHandler_StoreFailureIsInternalError(t *testing.T) {
	repo := newMockRepository()
	repo.listErr = errors.New("connection refused")
	f := newHandlerFixture(t, time.Now(), repo)

	for _, path := range []string{"/", "/visualizar"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil), true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.Equal(t, "internal error", rec.Body.String(), path)
	}
	assert.Zero(t, f.renderer.calls)
}

func TestHandler_CreateRedirectsToListing(t *testing.T) {
	repo := newMockRepository()
	f := newHandlerFixture(t, time.Now(), repo)

	form := url.Values{
		"nome":        {"Ana"},
		"cidade":      {"Pelotas"},
		"dataEntrada": {"2024-03-05T08:00"},
		"entrada":     {"08:00"},
		"dataSaida":   {"2024-03-06"},
		"saida":       {""},
		"tipo":        {"técnico"},
	}
	req := httptest.NewRequest(http.MethodPost, "/cadastro", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := f.do(req, true)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.NotNil(t, repo.lastCreated)
	assert.Equal(t, "Ana", repo.lastCreated.Name)
	assert.Equal(t, "Pelotas", repo.lastCreated.City)
	assert.Equal(t, "2024-03-05", repo.lastCreated.EntryDate)
	assert.Equal(t, "08:00", repo.lastCreated.EntryTime)
	assert.Equal(t, "2024-03-06", repo.lastCreated.ExitDate)
	assert.Equal(t, "", repo.lastCreated.ExitTime)
	assert.Equal(t, "técnico", repo.lastCreated.Kind)
}

func TestHandler_CreateStoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = errors.New("invalid input syntax for type date")
	f := newHandlerFixture(t, time.Now(), repo)

	req := httptest.NewRequest(http.MethodPost, "/cadastro", strings.NewReader("dataEntrada=amanha"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_DeleteRemovesEntry(t *testing.T) {
	repo := newMockRepository(entry(1, date(2024, 1, 10)), entry(2, date(2024, 2, 10)))
	f := newHandlerFixture(t, time.Now(), repo)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/remover/1", nil), true)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	f.do(httptest.NewRequest(http.MethodGet, "/", nil), true)
	page := f.renderer.data.(IndexPage)
	assert.Equal(t, []int64{2}, ids(page.Entries))
}

func TestHandler_DeleteUnknownOrMalformedIDIsNoop(t *testing.T) {
	repo := newMockRepository(entry(1, date(2024, 1, 10)))
	f := newHandlerFixture(t, time.Now(), repo)

	for _, path := range []string{"/remover/999", "/remover/abc"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil), true)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}

	assert.Len(t, repo.entries, 1)
	assert.Equal(t, []string{"Delete"}, repo.calls, "malformed id never reaches the store")
}

func TestHandler_DeleteStoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.deleteErr = errors.New("timeout")
	f := newHandlerFixture(t, time.Now(), repo)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/remover/1", nil), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
