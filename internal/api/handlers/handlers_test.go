package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avukatajanda/ajanda/internal/api"
	"github.com/avukatajanda/ajanda/internal/testutil"
)

// setupAPI builds the full router on top of an in-memory database so tests
// exercise the real middleware chain and route tree.
func setupAPI(t *testing.T) (*testutil.TestSetup, http.Handler) {
	t.Helper()

	tc := testutil.NewTestContext(t)
	t.Cleanup(tc.Cleanup)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := api.NewRouter(api.RouterConfig{
		DB:          tc.DB,
		Logger:      logger,
		JWTService:  tc.JWTService,
		AuthService: tc.AuthService,
		Version:     "test",
	})

	return tc, router
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
