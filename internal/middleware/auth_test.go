package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xelth-com/bizziosync/internal/utils"
)

const testSecret = "test-secret"

func protected(action string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Subject(r.Context())))
	})
	h := http.Handler(ok)
	if action != "" {
		h = RequireNonce(testSecret, action)(h)
	}
	return AuthMiddleware(testSecret)(h)
}

func TestAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateAccessToken("admin", testSecret)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	nonce, _ := utils.GenerateNonce("admin", "import_products", testSecret)

	tests := []struct {
		name   string
		auth   string
		query  string
		status int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"malformed", "Token " + token, "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"nonce is not an access token", "Bearer " + nonce, "", http.StatusUnauthorized},
		{"valid header", "Bearer " + token, "", http.StatusOK},
		{"valid query", "", "?token=" + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			protected("").ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rec.Code)
			}
			if tt.status == http.StatusOK && rec.Body.String() != "admin" {
				t.Errorf("Expected subject admin, got %q", rec.Body.String())
			}
		})
	}
}

func TestRequireNonce(t *testing.T) {
	token, _ := utils.GenerateAccessToken("admin", testSecret)
	good, _ := utils.GenerateNonce("admin", "process_products", testSecret)
	otherAction, _ := utils.GenerateNonce("admin", "uninstall", testSecret)
	otherUser, _ := utils.GenerateNonce("someone", "process_products", testSecret)

	tests := []struct {
		name   string
		nonce  string
		status int
	}{
		{"missing", "", http.StatusForbidden},
		{"wrong action", otherAction, http.StatusForbidden},
		{"wrong user", otherUser, http.StatusForbidden},
		{"valid", good, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			if tt.nonce != "" {
				req.Header.Set(NonceHeader, tt.nonce)
			}
			rec := httptest.NewRecorder()
			protected("process_products").ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
