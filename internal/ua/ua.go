// internal/ua/ua.go
//
// User-Agent parsing helpers.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  requestinfo is
// the only caller; it records the parsed client in the access log and in
// the per-request info the country handlers read.
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes used by middleware and handlers.
//
// Example (Chrome on macOS):
//
//	Browser   "Chrome"
//	Version   "125.0.6422"
//	OS        "MacOSX"
//	OSVersion "14.4"
//	Device    "Desktop"
//	Platform  "Mac"
//	IsBot     false
//
// Device will be one of: "Desktop", "Mobile", "Tablet", "Bot", or "Other".
type Info struct {
	Browser   string `json:"browser"`
	Version   string `json:"version,omitempty"`
	OS        string `json:"os"`
	OSVersion string `json:"os_version,omitempty"`
	Device    string `json:"device"`
	Platform  string `json:"platform"`
	IsBot     bool   `json:"bot"`
	Lang      string `json:"lang,omitempty"`
	Raw       string `json:"-"`
}

// Parse converts a raw User-Agent header and an optional Accept-Language
// header into an Info struct.
func Parse(raw, acceptLang string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser:   strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:   versionToString(u.Browser.Version),
		OS:        strings.TrimPrefix(u.OS.Name.String(), "OS"),
		OSVersion: versionToString(u.OS.Version),
		Platform:  strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:     u.IsBot(),
		Lang:      primaryLang(acceptLang),
		Raw:       raw,
	}

	switch {
	case info.IsBot:
		info.Device = "Bot"
	case u.DeviceType == surfer.DeviceComputer:
		info.Device = "Desktop"
	case u.DeviceType == surfer.DeviceTablet:
		info.Device = "Tablet"
	case u.DeviceType == surfer.DevicePhone, u.DeviceType == surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}

// primaryLang extracts the first language tag before any ";q=" weight.
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
