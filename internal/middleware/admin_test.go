package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradejournal/internal/models"
)

type stubUserLookup struct {
	getByIDFn func(ctx context.Context, userID string) (*models.User, error)
}

func (s stubUserLookup) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getByIDFn(ctx, userID)
}

func lookupReturning(user *models.User, err error) stubUserLookup {
	return stubUserLookup{getByIDFn: func(context.Context, string) (*models.User, error) {
		return user, err
	}}
}

func serveRole(t *testing.T, users UserLookup, userID string, wantCalled bool) int {
	t.Helper()
	called := false
	handler := RequireRole(users, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}
	handler.ServeHTTP(rr, req)
	if called != wantCalled {
		t.Fatalf("expected handler called=%v", wantCalled)
	}
	return rr.Code
}

func TestRequireRoleMissingUser(t *testing.T) {
	users := stubUserLookup{getByIDFn: func(context.Context, string) (*models.User, error) {
		t.Fatalf("unexpected call")
		return nil, nil
	}}
	if code := serveRole(t, users, "", false); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestRequireRoleUnknownUser(t *testing.T) {
	if code := serveRole(t, lookupReturning(nil, models.ErrNotFound), "user-1", false); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestRequireRoleLookupError(t *testing.T) {
	if code := serveRole(t, lookupReturning(nil, errors.New("db down")), "user-1", false); code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
}

func TestRequireRoleWrongRole(t *testing.T) {
	user := &models.User{ID: "user-1", Role: models.RoleUser, IsActive: true}
	if code := serveRole(t, lookupReturning(user, nil), "user-1", false); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRequireRoleInactiveAdmin(t *testing.T) {
	user := &models.User{ID: "user-1", Role: models.RoleAdmin}
	if code := serveRole(t, lookupReturning(user, nil), "user-1", false); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestRequireRoleAdmin(t *testing.T) {
	user := &models.User{ID: "user-1", Role: models.RoleAdmin, IsActive: true}
	if code := serveRole(t, lookupReturning(user, nil), "user-1", true); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}
