package auth

import (
	"testing"
	"time"
)

func TestCredential(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cred := Credential{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    now.Add(time.Hour).UnixMilli(),
	}

	t.Run("Complete", func(t *testing.T) {
		if !cred.Complete() {
			t.Error("expected credential to be complete")
		}
		if (Credential{}).Complete() {
			t.Error("zero credential should not be complete")
		}
		partial := cred
		partial.RefreshToken = ""
		if partial.Complete() {
			t.Error("credential without refresh token should not be complete")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		if cred.Expired(now) {
			t.Error("credential should be live before its expiry")
		}
		if !cred.Expired(now.Add(2 * time.Hour)) {
			t.Error("credential should be expired after its expiry")
		}
		if !cred.Expired(time.UnixMilli(cred.ExpiresAt)) {
			t.Error("credential should be expired at the exact expiry instant")
		}
	})

	t.Run("Token Round Trip", func(t *testing.T) {
		if got := FromToken(cred.Token()); got != cred {
			t.Errorf("expected %+v, got %+v", cred, got)
		}
	})
}
