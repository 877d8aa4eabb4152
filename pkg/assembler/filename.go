package assembler

import (
	"strings"
	"time"
)

const defaultSubject = "dokument"

func keepRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == 'å' || r == 'ä' || r == 'ö'
}

// DeriveFileName builds "<subject>_<YYYY-MM-DD>_<suffix>.pdf". The subject is
// lower-cased, every other character than a-z, 0-9 and å, ä, ö becomes "_",
// runs of "_" collapse and leading or trailing ones are dropped. Names are
// deterministic, not unique.
func DeriveFileName(subject string, date time.Time, suffix string) string {
	var sb strings.Builder
	underscore := false
	for _, r := range strings.ToLower(subject) {
		if keepRune(r) {
			sb.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			sb.WriteByte('_')
			underscore = true
		}
	}

	name := strings.Trim(sb.String(), "_")
	if name == "" {
		name = defaultSubject
	}
	return name + "_" + date.Format("2006-01-02") + "_" + suffix + ".pdf"
}
