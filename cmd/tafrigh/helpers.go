package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var statusTitleCaser = cases.Title(language.Und)

// displayStatus renders a queue status for table output, e.g.
// "transcribing" becomes "Transcribing".
func displayStatus(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "-"
	}
	return statusTitleCaser.String(strings.ReplaceAll(status, "_", " "))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
