// Package visitor derives what the resolution engine knows about a request:
// device class, region and a stable visitor identifier.
package visitor

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"linkrelay/internal/model"
	"linkrelay/internal/rules"
	"linkrelay/pkg/util"
)

// maxReferrerLen matches the click_events.referrer column
const maxReferrerLen = 512

// Info describes one visitor request
type Info struct {
	IP        string
	UserAgent string
	Referrer  string
	Device    model.DeviceClass
	Region    Region
	VisitorID string
	Now       time.Time
}

// RuleContext projects the visitor onto the rule evaluator's input
func (i Info) RuleContext() rules.Context {
	return rules.Context{
		Country:   i.Region.Country,
		Continent: i.Region.Continent,
		Now:       i.Now,
		Device:    i.Device,
		VisitorID: i.VisitorID,
	}
}

// Resolver builds visitor Info from HTTP requests
type Resolver struct {
	geo           RegionLookup
	countryHeader string
	now           func() time.Time
}

// Option configures a Resolver
type Option func(*Resolver)

// WithCountryHeader trusts a CDN-provided country header such as CF-IPCountry
func WithCountryHeader(name string) Option {
	return func(r *Resolver) { r.countryHeader = name }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver creates a Resolver. geo may be nil when no database is configured.
func NewResolver(geo RegionLookup, opts ...Option) *Resolver {
	r := &Resolver{geo: geo, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromRequest builds the visitor Info. ip is the client address already
// resolved by the router; cookieID is a previously issued visitor id, if any.
func (r *Resolver) FromRequest(req *http.Request, ip, cookieID string) Info {
	ua := req.UserAgent()
	info := Info{
		IP:        ip,
		UserAgent: ua,
		Referrer:  util.Truncate(req.Referer(), maxReferrerLen),
		Device:    ClassifyDevice(ua),
		VisitorID: cookieID,
		Now:       r.now().UTC(),
	}
	if !validVisitorID(info.VisitorID) {
		info.VisitorID = HashVisitor(ip, ua)
	}
	info.Region = r.region(req, ip)
	return info
}

func (r *Resolver) region(req *http.Request, ip string) Region {
	if r.countryHeader != "" {
		if c := strings.ToUpper(strings.TrimSpace(req.Header.Get(r.countryHeader))); len(c) == 2 && c != "XX" && c != "T1" {
			return Region{Country: c, Continent: ContinentOf(c)}
		}
	}
	if r.geo == nil {
		return Region{}
	}
	return r.geo.Lookup(ip)
}

// HashVisitor derives a stable visitor id from the client address and agent.
// The raw IP never leaves this function.
func HashVisitor(ip, ua string) string {
	sum := sha256.Sum256([]byte(ip + "|" + ua))
	return hex.EncodeToString(sum[:8])
}

func validVisitorID(id string) bool {
	if len(id) != 16 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
