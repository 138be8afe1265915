package processor

import (
	"fmt"
	"strings"
)

var byteUnits = []string{"KB", "MB", "GB", "TB", "PB"}

// humanBytes renders a byte count with a 1024 divisor: 1048576 -> "1.0 MB".
func humanBytes(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	unit := ""
	for _, u := range byteUnits {
		value /= 1024
		unit = u
		if value < 1024 {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", value, unit)
}

// formatDuration renders seconds as HH:MM:SS.
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// formatCaption substitutes {filename}, {filesize} and {duration} into
// the user's caption template. Substitution is literal, no escaping.
func formatCaption(template, filename string, filesize int64, duration string) string {
	caption := template
	caption = strings.ReplaceAll(caption, "{filename}", filename)
	caption = strings.ReplaceAll(caption, "{filesize}", humanBytes(filesize))
	caption = strings.ReplaceAll(caption, "{duration}", duration)
	return caption
}
