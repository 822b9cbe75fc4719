package service

import (
	"errors"

	"linkrelay/internal/access"
	"linkrelay/internal/render"
	"linkrelay/internal/visitor"
)

var (
	// ErrNotFound is returned when the short code resolves to nothing
	ErrNotFound = errors.New("short link not found")
	// ErrUnavailable is returned when a dependency failed or timed out; the
	// request may be retried
	ErrUnavailable = errors.New("short link temporarily unavailable")
)

// OutcomeKind classifies a resolution
type OutcomeKind int

const (
	// Redirect sends the visitor straight to Page.Location
	Redirect OutcomeKind = iota
	// Interstitial serves Page.HTML, which navigates on its own
	Interstitial
	// Denied rejects the visit for Reason
	Denied
	// AwaitingPassword asks the visitor for the link password
	AwaitingPassword
)

// String returns the outcome name used in logs
func (k OutcomeKind) String() string {
	switch k {
	case Redirect:
		return "redirect"
	case Interstitial:
		return "interstitial"
	case Denied:
		return "denied"
	case AwaitingPassword:
		return "awaiting_password"
	default:
		return "unknown"
	}
}

// ResolveRequest is one visit to a short code
type ResolveRequest struct {
	ShortCode string
	// Password is a submitted plaintext credential, if any
	Password string
	// UnlockToken is the fingerprint remembered from an earlier unlock
	UnlockToken string
	Visitor     visitor.Info
}

// Outcome is the decision for one visit
type Outcome struct {
	Kind   OutcomeKind
	Reason access.Reason
	Page   *render.Page
	LinkID int64
	// UnlockToken is set when a submitted password was accepted
	UnlockToken string
}
