package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ElectroHub/internal/config"
	"ElectroHub/internal/repo"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gotest.tools/v3/assert"
)

func server(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	cfg.RateLimit = 1000
	cfg.RateBurst = 1000
	m := mux.NewRouter()
	HandleList(m, cfg, repo.NewMemoryRepository())
	return CORS(m)
}

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestRoutesOpenWithoutAuth(t *testing.T) {
	h := server(t, config.Config{})

	assert.Equal(t, call(h, "GET", "/api/catalog", "").Code, http.StatusOK)
	assert.Equal(t, call(h, "GET", "/api/project/defaults", "").Code, http.StatusOK)
	assert.Equal(t, call(h, "POST", "/api/project/calc", `{}`).Code, http.StatusOK)
	assert.Equal(t, call(h, "POST", "/api/tools/demand/calc", `{"scenario":"A","loads":[]}`).Code, http.StatusOK)
	assert.Equal(t, call(h, "POST", "/api/project/export/demand.csv", `{}`).Code, http.StatusOK)
	assert.Equal(t, call(h, "GET", "/api/snapshots/latest", "").Code, http.StatusNotFound)
	assert.Equal(t, call(h, "POST", "/api/login", `{}`).Code, http.StatusNotFound)
}

func TestRoutesRequireSession(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	assert.NilError(t, err)
	h := server(t, config.Config{TokenKey: "k", OperatorLogin: "admin", OperatorPasswordHash: string(hash)})

	assert.Equal(t, call(h, "GET", "/api/catalog", "").Code, http.StatusOK)
	assert.Equal(t, call(h, "POST", "/api/project/calc", `{}`).Code, http.StatusUnauthorized)
	assert.Equal(t, call(h, "GET", "/api/snapshots", "").Code, http.StatusUnauthorized)

	login := call(h, "POST", "/api/login", `{"login":"admin","password":"pw"}`)
	assert.Equal(t, login.Code, http.StatusOK)

	r := httptest.NewRequest("GET", "/api/snapshots", nil)
	r.AddCookie(login.Result().Cookies()[0])
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, w.Code, http.StatusOK)
}

func TestCORSPreflight(t *testing.T) {
	w := call(server(t, config.Config{}), "OPTIONS", "/api/project/calc", "")
	assert.Equal(t, w.Code, http.StatusNoContent)
	assert.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
}
