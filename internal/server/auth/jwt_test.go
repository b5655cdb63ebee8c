package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}
	return tok
}

func validClaims(exp time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
		},
		Email:        "a@x.com",
		Role:         "authenticated",
		UserMetadata: map[string]any{"full_name": "Ann"},
	}
}

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	tok := signToken(t, jwt.SigningMethodHS256, []byte(secret), validClaims(time.Hour))

	claims, err := NewVerifier(secret).Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	u := claims.RemoteUser()
	if u.ID != "user-123" || u.Email != "a@x.com" || u.DisplayName != "Ann" {
		t.Fatalf("unexpected user projection: %+v", u)
	}
	if !u.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt must not be derived from iat, got %v", u.CreatedAt)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	tok := signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims(-time.Minute))

	_, err := NewVerifier("secret").Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok := signToken(t, jwt.SigningMethodHS256, []byte("right-secret"), validClaims(time.Hour))

	if _, err := NewVerifier("wrong-secret").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsOtherMethods(t *testing.T) {
	t.Parallel()

	tok := signToken(t, jwt.SigningMethodHS512, []byte("secret"), validClaims(time.Hour))

	if _, err := NewVerifier("secret").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}

	none := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims(time.Hour))
	if _, err := NewVerifier("secret").Verify(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerify_RequiresExpiryAndSubject(t *testing.T) {
	t.Parallel()

	noExp := validClaims(time.Hour)
	noExp.ExpiresAt = nil
	tok := signToken(t, jwt.SigningMethodHS256, []byte("secret"), noExp)
	if _, err := NewVerifier("secret").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}

	noSub := validClaims(time.Hour)
	noSub.Subject = ""
	tok = signToken(t, jwt.SigningMethodHS256, []byte("secret"), noSub)
	if _, err := NewVerifier("secret").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without sub, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier("secret").Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
