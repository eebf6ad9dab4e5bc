package render

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLocationNameLen bounds the sanitized location fragment of a map
// filename so pathological model output cannot produce oversized names.
const maxLocationNameLen = 40

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// MapFileName builds a stable, unique filename for a location map within a
// job: map_<location>_<w>x<h>_<jobID>.png. The job id keeps names unique
// across runs; the sanitized location name keeps them unique within a job.
func MapFileName(jobID, location string, width, height int) string {
	return fmt.Sprintf("map_%s_%dx%d_%s.png", SanitizeName(location), width, height, jobID)
}

// SanitizeName makes an arbitrary display name safe for a filename: strips
// diacritics, joins whitespace runs with underscores, drops anything outside
// [A-Za-z0-9_-] and truncates to a bounded length. Empty input becomes
// "location".
func SanitizeName(name string) string {
	if flat, _, err := transform.String(deaccent, name); err == nil {
		name = flat
	}
	name = strings.Join(strings.Fields(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxLocationNameLen {
		out = out[:maxLocationNameLen]
	}
	if out == "" {
		return "location"
	}
	return out
}
