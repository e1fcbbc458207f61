package admission

import (
	"regexp"
	"strings"
)

var (
	automatedAgent = regexp.MustCompile(`(?i)(bot|crawl|spider|scrape|curl|wget|httpie|python-requests|python-urllib|aiohttp|go-http-client|java/|okhttp|libwww|httpclient|axios|node-fetch|headless|phantomjs|selenium|puppeteer|playwright)`)

	// Search engines, link previews and health probes are let through.
	allowedAgent = regexp.MustCompile(`(?i)(googlebot|bingbot|duckduckbot|yandexbot|baiduspider|applebot|slackbot|twitterbot|facebookexternalhit|linkedinbot|discordbot|telegrambot|whatsapp|kube-probe)`)
)

// BotDetector classifies user agents.
type BotDetector struct{}

// IsBot reports whether ua looks automated. A missing user agent counts as
// automated.
func (BotDetector) IsBot(ua string) bool {
	ua = strings.TrimSpace(ua)
	if ua == "" {
		return true
	}
	if allowedAgent.MatchString(ua) {
		return false
	}
	return automatedAgent.MatchString(ua)
}
