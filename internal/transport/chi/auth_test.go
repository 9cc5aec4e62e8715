package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_EmptyPassword_PassThrough(t *testing.T) {
	mw := BasicAuthMiddleware("elastic", "")
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/books/_search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("empty password: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	mw := BasicAuthMiddleware("elastic", "secret")
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/books/_search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("expected WWW-Authenticate challenge header")
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Type != "security_exception" {
		t.Errorf("error type: got %s, want security_exception", errResp.Error.Type)
	}
}

func TestAuthMiddleware_WrongPassword_401(t *testing.T) {
	mw := BasicAuthMiddleware("elastic", "secret")
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/books/_search", http.NoBody)
	req.SetBasicAuth("elastic", "wrong")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_WrongUser_401(t *testing.T) {
	mw := BasicAuthMiddleware("elastic", "secret")
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/books/_search", http.NoBody)
	req.SetBasicAuth("kibana", "secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong user: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidCredentials_200(t *testing.T) {
	mw := BasicAuthMiddleware("elastic", "secret")
	handler := mw(okHandler())

	req := httptest.NewRequest("GET", "/books/_search", http.NoBody)
	req.SetBasicAuth("elastic", "secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("valid credentials: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	mw := BasicAuthMiddleware("elastic", "secret")
	handler := mw(okHandler())

	for _, path := range []string{"/_cluster/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
