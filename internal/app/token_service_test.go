package app

import (
	"testing"
	"time"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", "tilerummy", time.Hour)

	token, err := svc.GenerateToken("player-1", "ABCD")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	playerID, roomCode, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if playerID != "player-1" || roomCode != "ABCD" {
		t.Fatalf("verified %s/%s, want player-1/ABCD", playerID, roomCode)
	}
}

func TestTokenServiceRejectsTamperedSecret(t *testing.T) {
	signer := NewTokenService("secret-a", "tilerummy", time.Hour)
	verifier := NewTokenService("secret-b", "tilerummy", time.Hour)

	token, err := signer.GenerateToken("player-1", "ABCD")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := verifier.Verify(token); err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", "tilerummy", -time.Minute)

	token, err := svc.GenerateToken("player-1", "ABCD")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := svc.Verify(token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestTokenServiceRequiresInput(t *testing.T) {
	svc := NewTokenService("test-secret", "tilerummy", time.Hour)
	if _, err := svc.GenerateToken("", "ABCD"); err == nil {
		t.Fatal("empty player id should fail")
	}
	if _, err := svc.GenerateToken("player-1", ""); err == nil {
		t.Fatal("empty room code should fail")
	}

	unconfigured := NewTokenService("", "tilerummy", time.Hour)
	if _, err := unconfigured.GenerateToken("player-1", "ABCD"); err == nil {
		t.Fatal("missing secret should fail")
	}
}
