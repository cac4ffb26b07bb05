package city

// englishNames is the built-in Hebrew to English city table.
var englishNames = map[string]string{
	"אור יהודה": "Or Yehuda",
	"אבו גוש":   "Abu Ghosh",
	"אבו סנאן":  "Abu Snan",
	"אופקים":    "Ofakim",
	"תל אביב":   "Tel Aviv",
	"ירושלים":   "Jerusalem",
	"חיפה":      "Haifa",
}

// Translator maps city names to English. Unknown names pass through unchanged.
// A Translator is never mutated after construction.
type Translator struct {
	names map[string]string
}

// NewTranslator returns a Translator over the built-in table plus extra entries.
// Extra entries win over built-in ones.
func NewTranslator(extra map[string]string) *Translator {
	names := make(map[string]string, len(englishNames)+len(extra))
	for k, v := range englishNames {
		names[k] = v
	}
	for k, v := range extra {
		if k != "" && v != "" {
			names[k] = v
		}
	}
	return &Translator{names: names}
}

// English returns the English name for a city, or the name itself when unknown.
func (t *Translator) English(name string) string {
	if en, ok := t.names[name]; ok {
		return en
	}
	return name
}

// Known reports whether name has a translation.
func (t *Translator) Known(name string) bool {
	_, ok := t.names[name]
	return ok
}
