package visitor

import (
	"strings"

	"linkrelay/internal/model"

	"github.com/mssola/user_agent"
)

// ClassifyDevice maps a User-Agent header to a device class. Tablets are
// checked first because most tablet agents also look mobile.
func ClassifyDevice(ua string) model.DeviceClass {
	if ua == "" {
		return model.DeviceDesktop
	}
	if isTablet(ua) {
		return model.DeviceTablet
	}
	if user_agent.New(ua).Mobile() {
		return model.DeviceMobile
	}
	return model.DeviceDesktop
}

func isTablet(ua string) bool {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "ipad"),
		strings.Contains(lower, "tablet"),
		strings.Contains(lower, "kindle"),
		strings.Contains(lower, "silk/"),
		strings.Contains(lower, "playbook"):
		return true
	case strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"):
		return true
	}
	return false
}
