package detector

import (
	"net"
	"strings"
)

// DetectDeviceType classifies a User-Agent string into a coarse device
// bucket for click analytics.
func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	botKeywords := []string{"bot", "crawler", "spider", "scraper", "curl", "wget"}
	for _, keyword := range botKeywords {
		if strings.Contains(ua, keyword) {
			return "bot"
		}
	}

	mobileKeywords := []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone"}
	for _, keyword := range mobileKeywords {
		if strings.Contains(ua, keyword) {
			return "mobile"
		}
	}

	tabletKeywords := []string{"tablet", "ipad"}
	for _, keyword := range tabletKeywords {
		if strings.Contains(ua, keyword) {
			return "tablet"
		}
	}

	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") {
		return "desktop"
	}

	return "unknown"
}

// ClientIP picks the originating address, preferring proxy headers over
// the raw remote address.
func ClientIP(remoteAddr, xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xRealIP != "" {
		return xRealIP
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}

	return remoteAddr
}
