// Package access decides whether a link may be resolved at all.
package access

import (
	"time"

	"linkrelay/internal/model"
)

// Reason explains why a link was denied
type Reason string

const (
	ReasonInactive      Reason = "inactive"
	ReasonExpired       Reason = "expired"
	ReasonLimitReached  Reason = "limit_reached"
	ReasonDeviceBlocked Reason = "device_blocked"
)

// Verdict is the outcome of an access check
type Verdict struct {
	Admitted bool
	Reason   Reason
}

// Admit is the verdict for a resolvable link
var Admit = Verdict{Admitted: true}

// Deny builds a denying verdict
func Deny(reason Reason) Verdict {
	return Verdict{Reason: reason}
}

// Check evaluates activation, expiration and click quota in that order.
// The first failing condition wins.
func Check(link *model.Link, now time.Time) Verdict {
	if !link.IsActive {
		return Deny(ReasonInactive)
	}
	if link.ExpirationEnabled && link.ExpirationDate != nil && now.After(*link.ExpirationDate) {
		return Deny(ReasonExpired)
	}
	if link.ClickLimitEnabled && link.TotalClicks >= link.ClickLimit {
		return Deny(ReasonLimitReached)
	}
	return Admit
}
