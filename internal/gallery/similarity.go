package gallery

import (
	"path"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"ko_lake_villa/internal/domain"
)

var (
	imageExtRe    = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
	sizeSuffixRe  = regexp.MustCompile(`(?i)_thumb|_small|_medium|_large|_\d+x\d+`)
	uploadStampRe = regexp.MustCompile(`-\d{13}-\d+-`)
	separatorsRe  = regexp.MustCompile(`[-_\s]+`)
	digitsRe      = regexp.MustCompile(`\d+`)
)

// maxNearEdits is the largest edit distance still treated as the same picture.
const maxNearEdits = 2

func dropNearDuplicates(records []domain.RawMediaRecord) []domain.RawMediaRecord {
	out := make([]domain.RawMediaRecord, 0, len(records))
	keys := make([]string, 0, len(records))
	for _, r := range records {
		k := similarityKey(r.URL)
		dup := false
		for _, seen := range keys {
			if similarKeys(k, seen) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, r)
		keys = append(keys, k)
	}
	return out
}

// baseFilename strips the extension, one size suffix and an upload timestamp.
func baseFilename(url string) string {
	name := path.Base(url)
	name = imageExtRe.ReplaceAllString(name, "")
	if loc := sizeSuffixRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]] + name[loc[1]:]
	}
	if loc := uploadStampRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]] + "-" + name[loc[1]:]
	}
	return strings.ToLower(name)
}

func similarityKey(url string) string {
	k := separatorsRe.ReplaceAllString(baseFilename(url), "")
	return digitsRe.ReplaceAllString(k, "")
}

func similarKeys(a, b string) bool {
	// all-digit names reduce to nothing and say nothing about the picture
	if a == "" || b == "" {
		return false
	}
	return a == b ||
		strings.Contains(a, b) ||
		strings.Contains(b, a) ||
		levenshtein.ComputeDistance(a, b) <= maxNearEdits
}
