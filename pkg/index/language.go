package index

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector guesses the language of a city name among the scripts
// found in Israeli municipality names.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector for English, Hebrew and Arabic.
func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Hebrew, lingua.Arabic).
			Build(),
	}
}

// Detect returns the ISO 639-1 code of text, or "" when undecided.
func (d *Detector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
