package wegue

import (
	"strings"

	"github.com/google/uuid"
)

// IDGenerator produces a fresh unique token. It backs LayerID when a name
// leaves nothing usable.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

var transliterations = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
	"é", "e",
)

var separators = strings.NewReplacer(
	" ", "_",
	"-", "_",
	":", "_",
)

// LayerID derives a lowercase ASCII identifier from a layer name:
// "Müller Straße" becomes "mueller_strasse". Only [a-z0-9_] survive. When
// nothing does, fallback supplies the id (NewUUID if nil).
func LayerID(name string, fallback IDGenerator) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = transliterations.Replace(id)
	id = separators.Replace(id)

	var result strings.Builder
	lastUnderscore := false
	for _, r := range id {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
			lastUnderscore = false
		case r == '_':
			if !lastUnderscore {
				result.WriteRune(r)
			}
			lastUnderscore = true
		}
	}

	lid := strings.Trim(result.String(), "_")
	if lid == "" {
		if fallback == nil {
			fallback = NewUUID
		}
		return fallback()
	}
	return lid
}
