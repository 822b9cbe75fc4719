package model

import (
	"time"
)

// DefaultCloakingDelay is applied when a cloaked link carries no delay
const DefaultCloakingDelay = 3

// DeviceClass is the coarse device category of a visitor
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
)

// ScriptPosition selects where injected scripts land in the interstitial page
type ScriptPosition string

const (
	ScriptHead   ScriptPosition = "head"
	ScriptBody   ScriptPosition = "body"
	ScriptFooter ScriptPosition = "footer"
)

// TrackingScript is one operator-supplied script body
type TrackingScript struct {
	Script  string `json:"script"`
	Enabled bool   `json:"enabled"`
}

// GeoRule routes visitors whose country or continent matches Region
type GeoRule struct {
	Region string `json:"region"`
	URL    string `json:"url"`
}

// TimeRule routes visitors arriving inside a weekly time window
type TimeRule struct {
	Days      []int  `json:"days,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	URL       string `json:"url"`
}

// ABVariant is one weighted A/B candidate
type ABVariant struct {
	URL    string `json:"url"`
	Weight int    `json:"weight"`
}

// DeviceRules holds the per-class allow flags
type DeviceRules struct {
	Desktop bool `json:"desktop"`
	Mobile  bool `json:"mobile"`
	Tablet  bool `json:"tablet"`
}

// Allows reports whether the device class may resolve the link
func (d DeviceRules) Allows(class DeviceClass) bool {
	switch class {
	case DeviceMobile:
		return d.Mobile
	case DeviceTablet:
		return d.Tablet
	default:
		return d.Desktop
	}
}

// AllowAllDevices is the default device rule set
func AllowAllDevices() *DeviceRules {
	return &DeviceRules{Desktop: true, Mobile: true, Tablet: true}
}

// Link represents a resolvable short link. It is created and updated by the
// management side; the resolution engine only reads it.
type Link struct {
	ID             int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         string     `json:"user_id" gorm:"type:varchar(64);index"`
	ShortCode      string     `json:"short_code" gorm:"type:varchar(64);uniqueIndex;not null"`
	DestinationURL string     `json:"destination_url" gorm:"type:varchar(2048);not null"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	TotalClicks    int64      `json:"total_clicks" gorm:"default:0;not null"`
	LastClickedAt  *time.Time `json:"last_clicked_at"`

	// Access control
	PasswordHash      string     `json:"-" gorm:"column:password_hash;type:varchar(255)"`
	ExpirationEnabled bool       `json:"expiration_enabled"`
	ExpirationDate    *time.Time `json:"expiration_date"`
	ClickLimitEnabled bool       `json:"click_limit_enabled"`
	ClickLimit        int64      `json:"click_limit"`

	// Cloaking
	CloakingEnabled         bool   `json:"cloaking_enabled"`
	CloakingPageTitle       string `json:"cloaking_page_title" gorm:"type:varchar(255)"`
	CloakingPageDescription string `json:"cloaking_page_description" gorm:"type:varchar(1024)"`
	CloakingDelay           int    `json:"cloaking_delay"`

	// Script injection
	ScriptInjectionEnabled bool             `json:"script_injection_enabled"`
	TrackingScripts        []TrackingScript `json:"tracking_scripts" gorm:"serializer:json"`
	ScriptDelay            int              `json:"script_delay"`
	ScriptPosition         ScriptPosition   `json:"script_position" gorm:"type:varchar(16)"`

	// Geo targeting
	GeoTargetingEnabled bool      `json:"geo_targeting_enabled"`
	GeoRules            []GeoRule `json:"geo_rules" gorm:"serializer:json"`
	GeoFallbackURL      string    `json:"geo_fallback_url" gorm:"type:varchar(2048)"`

	// Time targeting
	TimeTargetingEnabled bool       `json:"time_targeting_enabled"`
	TimeRules            []TimeRule `json:"time_rules" gorm:"serializer:json"`
	TimeFallbackURL      string     `json:"time_fallback_url" gorm:"type:varchar(2048)"`

	// Device targeting
	DeviceTargetingEnabled bool         `json:"device_targeting_enabled"`
	DeviceRules            *DeviceRules `json:"device_rules" gorm:"serializer:json"`

	// A/B testing
	ABTestingEnabled bool        `json:"ab_testing_enabled"`
	ABTestURLs       []ABVariant `json:"ab_test_urls" gorm:"column:ab_test_urls;serializer:json"`

	// UTM decoration
	UTMEnabled  bool   `json:"utm_enabled"`
	UTMSource   string `json:"utm_source" gorm:"type:varchar(255)"`
	UTMMedium   string `json:"utm_medium" gorm:"type:varchar(255)"`
	UTMCampaign string `json:"utm_campaign" gorm:"type:varchar(255)"`
	UTMTerm     string `json:"utm_term" gorm:"type:varchar(255)"`
	UTMContent  string `json:"utm_content" gorm:"type:varchar(255)"`
}

// TableName returns the table name for Link
func (Link) TableName() string {
	return "links"
}

// PasswordProtected reports whether resolution requires a credential
func (l *Link) PasswordProtected() bool {
	return l.PasswordHash != ""
}

// ApplyDefaults fills the values the management side leaves blank
func (l *Link) ApplyDefaults() {
	if l.CloakingDelay <= 0 {
		l.CloakingDelay = DefaultCloakingDelay
	}
	if l.ScriptDelay < 0 {
		l.ScriptDelay = 0
	}
	switch l.ScriptPosition {
	case ScriptHead, ScriptBody, ScriptFooter:
	default:
		l.ScriptPosition = ScriptHead
	}
	if l.DeviceRules == nil {
		l.DeviceRules = AllowAllDevices()
	}
}
