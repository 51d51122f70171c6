package model

import "time"

// CodeLength is the fixed length of referral codes.
const CodeLength = 6

// CodeAlphabet is the character set referral codes are drawn from.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCode binds a user to their referral code. The binding is a
// bijection: one code per user, one user per code.
type ReferralCode struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`

	// ReferredCount increments when a different user's first start
	// action names this code. Zeroed by a counts reset; the binding
	// itself is never removed.
	ReferredCount int64 `json:"referred_count"`

	CreatedAt time.Time `json:"created_at"`
}

// ReferralOutcome is the result of applying a referral.
type ReferralOutcome string

const (
	// ReferralApplied means the referrer's count was incremented.
	ReferralApplied ReferralOutcome = "applied"
	// ReferralDuplicate means this (code, user) pair was already applied.
	ReferralDuplicate ReferralOutcome = "duplicate"
	// ReferralSelf means the user tried to use their own code.
	ReferralSelf ReferralOutcome = "self_referral"
	// ReferralUnknownCode means no user owns the given code.
	ReferralUnknownCode ReferralOutcome = "unknown_code"
)
