package visitor

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
)

// Region is the geographic hint for a visitor
type Region struct {
	Country   string
	Continent string
}

// RegionLookup resolves a client IP to a region
type RegionLookup interface {
	Lookup(ip string) Region
}

// GeoIPLookup resolves regions from a MaxMind database
type GeoIPLookup struct {
	mu     sync.RWMutex
	reader *geoip2.Reader
}

// OpenGeoIP opens the MaxMind database at path
func OpenGeoIP(path string) (*GeoIPLookup, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database: %w", err)
	}
	meta := reader.Metadata()
	log.Info().Str("path", path).Uint("epoch", meta.BuildEpoch).Msg("GeoIP database loaded")
	return &GeoIPLookup{reader: reader}, nil
}

// Lookup returns the country and continent codes for ip, or an empty Region
func (g *GeoIPLookup) Lookup(ip string) Region {
	if g == nil {
		return Region{}
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() {
		return Region{}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.reader == nil {
		return Region{}
	}

	record, err := g.reader.Country(parsed)
	if err != nil {
		log.Debug().Err(err).Msg("GeoIP lookup failed")
		return Region{}
	}
	return Region{
		Country:   strings.ToUpper(record.Country.IsoCode),
		Continent: strings.ToUpper(record.Continent.Code),
	}
}

// Close releases the database
func (g *GeoIPLookup) Close() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reader == nil {
		return nil
	}
	err := g.reader.Close()
	g.reader = nil
	return err
}
