package capture

import "github.com/mssola/useragent"

// deviceInfo summarizes a User-Agent header for verification metadata.
// Returns nil for an empty header.
func deviceInfo(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	info := map[string]any{
		"os":       ua.OS(),
		"platform": ua.Platform(),
		"mobile":   ua.Mobile(),
		"bot":      ua.Bot(),
	}
	if browser != "" {
		info["browser"] = browser
		info["browser_version"] = version
	}
	return info
}
