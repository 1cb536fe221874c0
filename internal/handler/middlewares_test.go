package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ait-csi/notice-board/backend/internal/config"
	"github.com/ait-csi/notice-board/backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

func TestCORS(t *testing.T) {
	h := &Handler{}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("mirrors origin and allows credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notices", nil)
		req.Header.Set("Origin", "https://notice.aitpune.edu.in")
		rec := httptest.NewRecorder()

		h.cors(next).ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://notice.aitpune.edu.in" {
			t.Fatalf("expected mirrored origin, got %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Fatalf("expected credentials allowed, got %q", got)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/notices", nil)
		req.Header.Set("Origin", "https://notice.aitpune.edu.in")
		rec := httptest.NewRecorder()

		called := false
		h.cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if called {
			t.Fatal("preflight should not reach the next handler")
		}
	})
}

func TestRequirePermission(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name        string
		action      domain.Action
		role        domain.Role
		status      domain.UserStatus
		wantAllowed bool
	}{
		{"active admin creates notice", domain.ActionCreateNotice, domain.RoleAdmin, domain.StatusActive, true},
		{"active student blocked from creating notice", domain.ActionCreateNotice, domain.RoleStudent, domain.StatusActive, false},
		{"invited student may onboard", domain.ActionOnboard, domain.RoleStudent, domain.StatusInvited, true},
		{"inactive student blocked from onboarding", domain.ActionOnboard, domain.RoleStudent, domain.StatusInactive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			user := &domain.User{Role: tt.role, Status: tt.status}
			req = req.WithContext(context.WithValue(req.Context(), CurrentUserCtx, user))
			rec := httptest.NewRecorder()

			h.requirePermission(tt.action)(next).ServeHTTP(rec, req)

			if called != tt.wantAllowed {
				t.Fatalf("next handler called = %v, want %v", called, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				var resp Response
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Success {
					t.Fatal("expected an error envelope")
				}
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	h := &Handler{config: cfg}

	signToken := func(secret string, expiresAt time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
			Role: string(domain.RoleAdmin),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiresAt),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				NotBefore: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				Subject:   strconv.FormatInt(42, 10),
			},
		})
		ss, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		return ss
	}

	t.Run("valid token puts sub on the context", func(t *testing.T) {
		var gotSub string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSub = r.Context().Value(SubCtxKey).(string)
		})

		req := httptest.NewRequest(http.MethodGet, "/my-info", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signToken("test-secret", time.Now().Add(time.Hour))})
		rec := httptest.NewRecorder()

		h.auth(next).ServeHTTP(rec, req)

		if gotSub != "42" {
			t.Fatalf("expected sub 42, got %q", gotSub)
		}
	})

	t.Run("missing cookie is rejected", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/my-info", nil)
		rec := httptest.NewRecorder()

		h.auth(next).ServeHTTP(rec, req)

		if called {
			t.Fatal("next handler should not run without a session cookie")
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/my-info", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signToken("other-secret", time.Now().Add(time.Hour))})
		rec := httptest.NewRecorder()

		h.auth(next).ServeHTTP(rec, req)

		if called {
			t.Fatal("next handler should not run with a forged token")
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/my-info", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: signToken("test-secret", time.Now().Add(-time.Hour))})
		rec := httptest.NewRecorder()

		h.auth(next).ServeHTTP(rec, req)

		if called {
			t.Fatal("next handler should not run with an expired token")
		}
	})
}
