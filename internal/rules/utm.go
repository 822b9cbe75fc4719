package rules

import (
	"net/url"
	"strings"

	"linkrelay/internal/model"
)

// UTM holds the campaign parameters appended to a destination
type UTM struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// UTMFromLink extracts the decoration block of a link
func UTMFromLink(link *model.Link) UTM {
	return UTM{
		Source:   link.UTMSource,
		Medium:   link.UTMMedium,
		Campaign: link.UTMCampaign,
		Term:     link.UTMTerm,
		Content:  link.UTMContent,
	}
}

func (u UTM) pairs() [][2]string {
	return [][2]string{
		{"utm_source", u.Source},
		{"utm_medium", u.Medium},
		{"utm_campaign", u.Campaign},
		{"utm_term", u.Term},
		{"utm_content", u.Content},
	}
}

// Decorate merges the non-empty UTM values into dest's query string.
// Parameters it does not own are kept byte for byte and in order; its own
// keys are replaced and appended in a fixed order, so applying it twice
// yields the same URL.
func Decorate(dest string, utm UTM) string {
	u, err := url.Parse(dest)
	if err != nil {
		return dest
	}

	owned := make(map[string]bool)
	var appended []string
	for _, p := range utm.pairs() {
		if p[1] == "" {
			continue
		}
		owned[p[0]] = true
		appended = append(appended, url.QueryEscape(p[0])+"="+url.QueryEscape(p[1]))
	}
	if len(appended) == 0 {
		return dest
	}

	var kept []string
	for _, seg := range strings.Split(u.RawQuery, "&") {
		if seg == "" {
			continue
		}
		key, _, _ := strings.Cut(seg, "=")
		if k, err := url.QueryUnescape(key); err == nil && owned[k] {
			continue
		}
		kept = append(kept, seg)
	}

	u.RawQuery = strings.Join(append(kept, appended...), "&")
	return u.String()
}

// validURL accepts absolute http(s) URLs with a host
func validURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
