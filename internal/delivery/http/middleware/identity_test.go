package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-backend/internal/domain"
	"catalog-backend/pkg/utils"
)

func classifyRequest(t *testing.T, authorization string) domain.IdentityClass {
	t.Helper()
	var got domain.IdentityClass
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestIdentityClassification(t *testing.T) {
	utils.SetSecret("test-secret")

	token, err := utils.GenerateJWT("user-1", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	expired, err := utils.GenerateJWT("user-1", -time.Hour)
	if err != nil {
		t.Fatalf("generate expired token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   domain.IdentityClass
	}{
		{"no header", "", domain.IdentityAnonymous},
		{"valid bearer token", "Bearer " + token, domain.IdentityAuthenticated},
		{"expired token", "Bearer " + expired, domain.IdentityAnonymous},
		{"garbage token", "Bearer not-a-jwt", domain.IdentityAnonymous},
		{"wrong scheme", "Basic dXNlcjpwYXNz", domain.IdentityAnonymous},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyRequest(t, tc.header); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIdentityFromContextDefaultsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := IdentityFromContext(req.Context()); got != domain.IdentityAnonymous {
		t.Fatalf("expected anonymous, got %q", got)
	}
}
