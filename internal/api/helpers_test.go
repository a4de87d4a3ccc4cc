package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withUser stands in for the auth middleware.
func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(shared.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

type testServices struct {
	users  *mocks.MockUserService
	boards *mocks.MockBoardService
	lists  *mocks.MockListService
}

func newTestServices() *testServices {
	return &testServices{
		users:  &mocks.MockUserService{},
		boards: &mocks.MockBoardService{},
		lists:  &mocks.MockListService{},
	}
}

// router mounts the handlers on the same paths as the server.
func (s *testServices) router(t *testing.T, userID uuid.UUID) http.Handler {
	t.Helper()

	authH, err := NewAuthHandler(s.users, discardLogger())
	require.NoError(t, err)
	boardH, err := NewBoardHandler(s.boards, discardLogger())
	require.NoError(t, err)
	listH, err := NewListHandler(s.lists, discardLogger())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(withUser(userID))

			r.Get("/auth/profile", authH.Profile)
			r.Post("/auth/logout", authH.Logout)

			r.Route("/boards", func(r chi.Router) {
				r.Post("/", boardH.CreateBoard)
				r.Get("/", boardH.ListBoards)
				r.Get("/{id}", boardH.GetBoard)
				r.Put("/{id}", boardH.UpdateBoard)
				r.Delete("/{id}", boardH.DeleteBoard)
				r.Post("/{id}/members", boardH.AddMember)
				r.Delete("/{id}/members/{userId}", boardH.RemoveMember)
				r.Post("/{boardId}/lists", listH.CreateList)
			})

			r.Route("/lists", func(r chi.Router) {
				r.Put("/reorder", listH.ReorderLists)
				r.Put("/{id}", listH.UpdateList)
				r.Delete("/{id}", listH.DeleteList)
			})
		})
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
