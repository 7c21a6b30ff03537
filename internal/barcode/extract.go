package barcode

import "regexp"

// setNumPattern matches an embedded catalog set number inside free-form
// product text: 4 to 6 digits, optionally followed by a one-digit variant
// suffix ("75192" or "75192-1").
var setNumPattern = regexp.MustCompile(`\b(\d{4,6}(?:-\d)?)\b`)

// ExtractSetNum returns the first embedded set number in the text, or ""
// when none is present.
func ExtractSetNum(text string) string {
	match := setNumPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}
