// Package rules turns a link's targeting configuration and a visitor context
// into exactly one destination URL.
package rules

import (
	"errors"
	"time"

	"linkrelay/internal/model"

	"github.com/rs/zerolog/log"
)

// ErrDeviceBlocked is returned when the visitor's device class is not allowed
var ErrDeviceBlocked = errors.New("device class not allowed")

// ErrNoDestination is returned when no layer and no base URL yields a usable destination
var ErrNoDestination = errors.New("no valid destination")

// Context carries everything about a visitor the rules may look at
type Context struct {
	Country   string
	Continent string
	Now       time.Time
	Device    model.DeviceClass
	VisitorID string
}

// layer is one routed rule set. The set of implementations is closed:
// geoLayer, timeLayer and abLayer.
type layer interface {
	name() string
	evaluate(link *model.Link, ctx Context) (string, bool)
}

// Evaluator applies the targeting layers in precedence order
type Evaluator struct {
	layers []layer
}

// NewEvaluator creates an Evaluator with the fixed precedence geo, time, A/B
func NewEvaluator() *Evaluator {
	return &Evaluator{
		layers: []layer{geoLayer{}, timeLayer{}, abLayer{}},
	}
}

// Resolve picks the destination for link. The device gate runs first and
// never falls back; then the first layer producing a URL wins; then the
// base destination. UTM decoration is applied to whatever was chosen.
func (e *Evaluator) Resolve(link *model.Link, ctx Context) (string, error) {
	if link.DeviceTargetingEnabled {
		rules := link.DeviceRules
		if rules == nil {
			rules = model.AllowAllDevices()
		}
		if !rules.Allows(ctx.Device) {
			return "", ErrDeviceBlocked
		}
	}

	dest := ""
	for _, l := range e.layers {
		if u, ok := l.evaluate(link, ctx); ok {
			log.Debug().Int64("link_id", link.ID).Str("layer", l.name()).Msg("Targeting layer matched")
			dest = u
			break
		}
	}

	if dest == "" {
		if !validURL(link.DestinationURL) {
			log.Error().Int64("link_id", link.ID).Msg("Link destination URL is invalid")
			return "", ErrNoDestination
		}
		dest = link.DestinationURL
	}

	if link.UTMEnabled {
		dest = Decorate(dest, UTMFromLink(link))
	}
	return dest, nil
}
