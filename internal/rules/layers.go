package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"linkrelay/internal/model"
	"linkrelay/pkg/util"

	"github.com/rs/zerolog/log"
)

type geoLayer struct{}

func (geoLayer) name() string { return "geo" }

func (geoLayer) evaluate(link *model.Link, ctx Context) (string, bool) {
	if !link.GeoTargetingEnabled {
		return "", false
	}
	for i, rule := range link.GeoRules {
		if !matchRegion(rule.Region, ctx) {
			continue
		}
		if !validURL(rule.URL) {
			skipRule(link, "geo", i, "invalid url")
			continue
		}
		return rule.URL, true
	}
	return fallback(link, "geo", link.GeoFallbackURL)
}

func matchRegion(region string, ctx Context) bool {
	region = strings.TrimSpace(region)
	if region == "" {
		return false
	}
	return (ctx.Country != "" && strings.EqualFold(region, ctx.Country)) ||
		(ctx.Continent != "" && strings.EqualFold(region, ctx.Continent))
}

type timeLayer struct{}

func (timeLayer) name() string { return "time" }

func (timeLayer) evaluate(link *model.Link, ctx Context) (string, bool) {
	if !link.TimeTargetingEnabled {
		return "", false
	}
	for i, rule := range link.TimeRules {
		ok, err := matchWindow(rule, ctx.Now)
		if err != nil {
			skipRule(link, "time", i, err.Error())
			continue
		}
		if !ok {
			continue
		}
		if !validURL(rule.URL) {
			skipRule(link, "time", i, "invalid url")
			continue
		}
		return rule.URL, true
	}
	return fallback(link, "time", link.TimeFallbackURL)
}

// matchWindow reports whether now falls in the rule's weekly window. A window
// whose start is after its end wraps past midnight and belongs to the day it
// started on.
func matchWindow(rule model.TimeRule, now time.Time) (bool, error) {
	loc := time.UTC
	if rule.Timezone != "" {
		l, err := time.LoadLocation(rule.Timezone)
		if err != nil {
			return false, fmt.Errorf("unknown timezone %q", rule.Timezone)
		}
		loc = l
	}
	start, err := parseClock(rule.StartTime, 0)
	if err != nil {
		return false, err
	}
	end, err := parseClock(rule.EndTime, 24*60)
	if err != nil {
		return false, err
	}
	for _, d := range rule.Days {
		if d < 0 || d > 6 {
			return false, fmt.Errorf("invalid weekday %d", d)
		}
	}

	local := now.In(loc)
	minute := local.Hour()*60 + local.Minute()
	today := int(local.Weekday())

	if start <= end {
		return onDay(rule.Days, today) && minute >= start && minute < end, nil
	}
	if minute >= start {
		return onDay(rule.Days, today), nil
	}
	if minute < end {
		return onDay(rule.Days, (today+6)%7), nil
	}
	return false, nil
}

func onDay(days []int, day int) bool {
	if len(days) == 0 {
		return true
	}
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// parseClock parses HH:MM into minutes after midnight
func parseClock(s string, empty int) (int, error) {
	if s == "" {
		return empty, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		if s == "24:00" {
			return 24 * 60, nil
		}
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

type abLayer struct{}

func (abLayer) name() string { return "ab" }

func (abLayer) evaluate(link *model.Link, ctx Context) (string, bool) {
	if !link.ABTestingEnabled {
		return "", false
	}

	candidates := make([]model.ABVariant, 0, len(link.ABTestURLs))
	var total uint64
	for i, v := range link.ABTestURLs {
		if v.Weight <= 0 {
			continue
		}
		if !validURL(v.URL) {
			skipRule(link, "ab", i, "invalid url")
			continue
		}
		candidates = append(candidates, v)
		total += uint64(v.Weight)
	}
	if total == 0 {
		return "", false
	}

	bucket := util.Bucket(strconv.FormatInt(link.ID, 10)+":"+ctx.VisitorID, total)
	for _, v := range candidates {
		w := uint64(v.Weight)
		if bucket < w {
			return v.URL, true
		}
		bucket -= w
	}
	return candidates[len(candidates)-1].URL, true
}

func fallback(link *model.Link, layer, u string) (string, bool) {
	if u == "" {
		return "", false
	}
	if !validURL(u) {
		log.Warn().Int64("link_id", link.ID).Str("layer", layer).Msg("Skipping invalid fallback URL")
		return "", false
	}
	return u, true
}

func skipRule(link *model.Link, layer string, index int, reason string) {
	log.Warn().
		Int64("link_id", link.ID).
		Str("layer", layer).
		Int("rule", index).
		Str("reason", reason).
		Msg("Skipping malformed targeting rule")
}
