package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestTokenRoundTrip проверяет подпись и разбор токена с claims тарифа и пояса.
func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", "fitrone", time.Minute)
	userID := uuid.New()

	token, _, err := manager.NewToken(userID, "pro", "Europe/Vilnius")
	if err != nil {
		t.Fatalf("expected token, got error %v", err)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Tier != "pro" || claims.Timezone != "Europe/Vilnius" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

// TestParseTokenRejectsForeignIssuer проверяет отказ токену чужого издателя.
func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	issuer := NewTokenManager("test-secret", "other-service", time.Minute)
	verifier := NewTokenManager("test-secret", "fitrone", time.Minute)

	token, _, err := issuer.NewToken(uuid.New(), "base", "")
	if err != nil {
		t.Fatalf("expected token, got error %v", err)
	}

	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}
