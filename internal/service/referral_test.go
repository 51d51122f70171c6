package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sharetrack/sharetrack/internal/model"
)

func TestGetOrCreateCode_StableAcrossCalls(t *testing.T) {
	st := newTestStore(t)
	svc := NewReferralService(st, nil, nil, 0)
	ctx := context.Background()

	code, err := svc.GetOrCreateCode(ctx, "alice")
	if err != nil {
		t.Fatalf("get or create code: %v", err)
	}
	if len(code) != model.CodeLength {
		t.Errorf("expected %d-char code, got %q", model.CodeLength, code)
	}
	for _, r := range code {
		if !strings.ContainsRune(model.CodeAlphabet, r) {
			t.Errorf("code %q contains %q outside the alphabet", code, r)
		}
	}

	again, err := svc.GetOrCreateCode(ctx, "alice")
	if err != nil {
		t.Fatalf("get code again: %v", err)
	}
	if again != code {
		t.Errorf("expected stable code, got %q then %q", code, again)
	}

	other, err := svc.GetOrCreateCode(ctx, "bob")
	if err != nil {
		t.Fatalf("get code for bob: %v", err)
	}
	if other == code {
		t.Error("expected distinct codes for distinct users")
	}

	if _, err := svc.GetOrCreateCode(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty user, got %v", err)
	}
}

func TestRegisterReferral_Outcomes(t *testing.T) {
	st := newTestStore(t)
	svc := NewReferralService(st, nil, nil, 0)
	ctx := context.Background()

	code, err := svc.GetOrCreateCode(ctx, "alice")
	if err != nil {
		t.Fatalf("get or create code: %v", err)
	}

	tests := []struct {
		name    string
		code    string
		newUser string
		want    model.ReferralOutcome
	}{
		{"unknown code", "NOSUCH", "bob", model.ReferralUnknownCode},
		{"self referral", code, "alice", model.ReferralSelf},
		{"applied", code, "bob", model.ReferralApplied},
		{"duplicate", code, "bob", model.ReferralDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := svc.RegisterReferral(ctx, tt.code, tt.newUser)
			if err != nil {
				t.Fatalf("register referral: %v", err)
			}
			if outcome != tt.want {
				t.Errorf("expected %q, got %q", tt.want, outcome)
			}
		})
	}

	if _, err := svc.RegisterReferral(ctx, "", "bob"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty code, got %v", err)
	}
	if _, err := svc.RegisterReferral(ctx, code, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty new user, got %v", err)
	}
}

func TestReferralRankingAndReset(t *testing.T) {
	st := newTestStore(t)
	svc := NewReferralService(st, nil, nil, 0)
	ctx := context.Background()

	aliceCode, err := svc.GetOrCreateCode(ctx, "alice")
	if err != nil {
		t.Fatalf("alice code: %v", err)
	}
	bobCode, err := svc.GetOrCreateCode(ctx, "bob")
	if err != nil {
		t.Fatalf("bob code: %v", err)
	}

	for _, u := range []string{"u1", "u2"} {
		if _, err := svc.RegisterReferral(ctx, bobCode, u); err != nil {
			t.Fatalf("refer %s: %v", u, err)
		}
	}
	if _, err := svc.RegisterReferral(ctx, aliceCode, "u3"); err != nil {
		t.Fatalf("refer u3: %v", err)
	}

	entries, err := svc.Ranking(ctx)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "bob" || entries[0].Count != 2 {
		t.Errorf("expected bob first with 2, got %+v", entries[0])
	}

	if err := svc.ResetCounts(ctx); err != nil {
		t.Fatalf("reset counts: %v", err)
	}

	entries, err = svc.Ranking(ctx)
	if err != nil {
		t.Fatalf("ranking after reset: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected bindings to survive reset, got %d entries", len(entries))
	}
	for _, e := range entries {
		if e.Count != 0 {
			t.Errorf("expected zero count for %s, got %d", e.UserID, e.Count)
		}
	}

	// Codes are unchanged by the reset.
	code, err := svc.GetOrCreateCode(ctx, "alice")
	if err != nil {
		t.Fatalf("alice code after reset: %v", err)
	}
	if code != aliceCode {
		t.Errorf("expected code to survive reset, got %q then %q", aliceCode, code)
	}
}
