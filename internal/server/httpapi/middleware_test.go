package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vkushnir/contactbook/internal/common"
	"github.com/vkushnir/contactbook/internal/server/models"
)

func TestRequireAuth_MissingHeader(t *testing.T) {
	s := newTestServer(&fakeUserService{}, &fakeContactService{})

	rr := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rr.Code)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	s := newTestServer(&fakeUserService{}, &fakeContactService{})

	for _, header := range []string{"access-jwt", "Basic abc", "Bearer ", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
		req.Header.Set("Authorization", header)
		rr := doRequest(t, s, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: want 401, got %d", header, rr.Code)
		}
	}
}

func TestRequireAuth_RejectedByService(t *testing.T) {
	users := &fakeUserService{
		authenticateFn: func(ctx context.Context, accessToken, sessionID string) (string, error) {
			return "", common.ErrorUnauthorized
		},
	}
	s := newTestServer(users, &fakeContactService{})

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Authorization", "Bearer revoked-jwt")
	rr := doRequest(t, s, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rr.Code)
	}
}

func TestRequireAuth_ExpiredAccessToken(t *testing.T) {
	users := &fakeUserService{
		authenticateFn: func(ctx context.Context, accessToken, sessionID string) (string, error) {
			return "", common.ErrTokenExpired
		},
	}
	s := newTestServer(users, &fakeContactService{})

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Authorization", "Bearer stale-jwt")
	rr := doRequest(t, s, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr.Body)
	if env.Message != "Token expired" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestRequireAuth_ForwardsTokenAndSessionCookie(t *testing.T) {
	var gotToken, gotSessionID string
	users := &fakeUserService{
		authenticateFn: func(ctx context.Context, accessToken, sessionID string) (string, error) {
			gotToken, gotSessionID = accessToken, sessionID
			return "u1", nil
		},
	}
	contacts := &fakeContactService{
		listFn: func(ctx context.Context, userID string) ([]*models.Contact, error) {
			return nil, nil
		},
	}
	s := newTestServer(users, contacts)

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Authorization", "Bearer access-jwt")
	req.AddCookie(&http.Cookie{Name: common.SessionIDCookieName, Value: "session-1"})
	rr := doRequest(t, s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rr.Code)
	}
	if gotToken != "access-jwt" || gotSessionID != "session-1" {
		t.Fatalf("credentials not forwarded: token=%q session=%q", gotToken, gotSessionID)
	}
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	contacts := &fakeContactService{
		listFn: func(ctx context.Context, userID string) ([]*models.Contact, error) {
			panic("boom")
		},
	}
	s := newTestServer(&fakeUserService{}, contacts)

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Authorization", "Bearer access-jwt")
	rr := doRequest(t, s, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rr.Code)
	}
}
