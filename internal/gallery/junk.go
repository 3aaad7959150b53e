package gallery

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// timestamp-index upload prefixes such as "1699999999-2-IMG"
	indexPrefixRe = regexp.MustCompile(`^\d+[-_]\d+`)
	whatsAppRe    = regexp.MustCompile(`(?i)WhatsApp\s+(Image|Video)`)
	mediaExtRe    = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|mp4|mov|webm)$`)
	longDigitsRe  = regexp.MustCompile(`^\d{8,}`)
)

// IsFilenameDerived reports whether s looks like it was copied from an upload
// filename rather than written by a person. The empty string counts as junk.
func IsFilenameDerived(s string) bool {
	if s == "" {
		return true
	}
	return indexPrefixRe.MatchString(s) ||
		whatsAppRe.MatchString(s) ||
		(strings.Contains(s, "_") && utf8.RuneCountInString(s) > 20) ||
		mediaExtRe.MatchString(s) ||
		longDigitsRe.MatchString(s)
}
