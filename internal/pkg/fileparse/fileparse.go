package fileparse

import (
	"regexp"
	"strings"
)

// QualityUnknown is returned when no quality token matches.
const QualityUnknown = "Unknown"

type seasonEpisodeRule struct {
	re        *regexp.Regexp
	hasSeason bool
}

// Ordered most specific to loosest; first match wins.
var seasonEpisodeRules = []seasonEpisodeRule{
	{regexp.MustCompile(`S(\d+)(?:E|EP)(\d+)`), true},
	{regexp.MustCompile(`S(\d+)[\s-]*(?:E|EP)(\d+)`), true},
	{regexp.MustCompile(`(?i)Season\s*(\d+)\s*Episode\s*(\d+)`), true},
	{regexp.MustCompile(`\[S(\d+)\]\[E(\d+)\]`), true},
	{regexp.MustCompile(`S(\d+)[^\d]*(\d+)`), true},
	{regexp.MustCompile(`(?i)(?:E|EP|Episode)\s*(\d+)`), false},
	// Final fallback: any standalone number is an episode number.
	{regexp.MustCompile(`\b(\d+)\b`), false},
}

type qualityRule struct {
	re *regexp.Regexp
	// fixed overrides the captured group when non-empty (e.g. "2160p" -> "4k").
	fixed string
}

var qualityRules = []qualityRule{
	{regexp.MustCompile(`(?i)\b(\d{3,4}[pi])\b`), ""},
	{regexp.MustCompile(`(?i)\b(4k|2160p)\b`), "4k"},
	{regexp.MustCompile(`(?i)\b(2k|1440p)\b`), "2k"},
	{regexp.MustCompile(`(?i)\b(HDRip|HDTV)\b`), ""},
	{regexp.MustCompile(`(?i)\b(4kX264|4kx265)\b`), ""},
	{regexp.MustCompile(`(?i)\[(\d{3,4}[pi])\]`), ""},
}

// SeasonEpisode extracts season and episode tokens from a filename.
// Digits are returned exactly as they appear, zero padding included.
// Empty strings mean no match.
func SeasonEpisode(filename string) (season, episode string) {
	for _, rule := range seasonEpisodeRules {
		m := rule.re.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		if rule.hasSeason {
			return m[1], m[2]
		}
		return "", m[1]
	}
	return "", ""
}

// Quality extracts a quality token from a filename, or QualityUnknown.
func Quality(filename string) string {
	for _, rule := range qualityRules {
		m := rule.re.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		if rule.fixed != "" {
			return rule.fixed
		}
		return m[1]
	}
	return QualityUnknown
}

// ApplyTemplate substitutes {season}, {episode} and {quality} tokens
// extracted from filename into an autorename template. Unmatched season
// and episode render as empty strings.
func ApplyTemplate(template, filename string) string {
	season, episode := SeasonEpisode(filename)
	quality := Quality(filename)

	out := template
	out = strings.ReplaceAll(out, "{season}", season)
	out = strings.ReplaceAll(out, "{episode}", episode)
	out = strings.ReplaceAll(out, "{quality}", quality)
	return out
}
