package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/vkushnir/contactbook/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"

	tok, err := GenerateToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	gotUserID, err := GetUserIDFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestGenerateToken_DistinctWithinSameSecond(t *testing.T) {
	t.Parallel()

	// iat/exp have second granularity, so uniqueness must come from the jti
	// claim. Two tokens for the same user minted back-to-back have to differ
	// or refresh rotation would replace a session with the same token string.
	secret := []byte("secret")

	first, err := GenerateToken("u1", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	second, err := GenerateToken("u1", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if first == second {
		t.Fatalf("tokens minted back-to-back must differ")
	}

	for _, tok := range []string{first, second} {
		userID, err := GetUserIDFromToken(tok, secret)
		if err != nil || userID != "u1" {
			t.Fatalf("token no longer verifies: userID=%q err=%v", userID, err)
		}
	}
}

func TestGenerateResetToken_DistinctWithinSameSecond(t *testing.T) {
	t.Parallel()

	secret := []byte("reset-secret")

	first, err := GenerateResetToken("a@x.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateResetToken error: %v", err)
	}
	second, err := GenerateResetToken("a@x.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateResetToken error: %v", err)
	}
	if first == second {
		t.Fatalf("reset tokens minted back-to-back must differ")
	}
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetUserIDFromToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestGetUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetUserIDFromToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGetUserIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetUserIDFromToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestResetToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("reset-secret")
	email := "a@x.com"

	tok, err := GenerateResetToken(email, secret, 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateResetToken error: %v", err)
	}

	got, err := GetEmailFromResetToken(tok, secret)
	if err != nil {
		t.Fatalf("GetEmailFromResetToken error: %v", err)
	}
	if got != email {
		t.Fatalf("email mismatch: got %q want %q", got, email)
	}
}

func TestResetToken_NotValidForAccess(t *testing.T) {
	t.Parallel()

	// A reset token carries no user id, so the access-token parser must
	// reject it even when signed with the same secret.
	secret := []byte("shared")

	tok, err := GenerateResetToken("a@x.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateResetToken error: %v", err)
	}

	_, err = GetUserIDFromToken(tok, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestResetToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("reset-secret")

	tok, err := GenerateResetToken("a@x.com", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateResetToken error: %v", err)
	}

	_, err = GetEmailFromResetToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}
