// Package city parses city directory names and translates city names.
package city

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDirName splits a source city directory name of the form
// <name_with_underscores>-<code>_<date> into a display name and a numeric code.
//
// The name is the first hyphen-separated segment with underscores turned into
// spaces; without a hyphen the directory name is returned unchanged. The code
// is the second segment up to its first underscore, or 0 when it is missing or
// not an integer; decimal digits of any script count, so "٤٠٠٠" is 4000. City
// names that themselves contain a hyphen are split like any other name.
func ParseDirName(dirName string) (name string, code int) {
	return ExtractName(dirName), ExtractCode(dirName)
}

// ExtractName returns the display name part of a city directory name.
func ExtractName(dirName string) string {
	parts := strings.Split(dirName, "-")
	if len(parts) < 2 {
		return dirName
	}
	return strings.ReplaceAll(parts[0], "_", " ")
}

// ExtractCode returns the numeric code part of a city directory name.
func ExtractCode(dirName string) int {
	parts := strings.Split(dirName, "-")
	if len(parts) < 2 {
		return 0
	}
	codePart, _, _ := strings.Cut(parts[1], "_")
	code, err := strconv.Atoi(asciiDigits(strings.TrimSpace(codePart)))
	if err != nil {
		return 0
	}
	return code
}

// asciiDigits rewrites Unicode decimal digits (category Nd) as 0-9. Each Nd
// range starts at a zero and runs in blocks of ten.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 || !unicode.IsDigit(r) {
			return r
		}
		for _, rg := range unicode.Nd.R16 {
			if r >= rune(rg.Lo) && r <= rune(rg.Hi) {
				return '0' + (r-rune(rg.Lo))%10
			}
		}
		for _, rg := range unicode.Nd.R32 {
			if r >= rune(rg.Lo) && r <= rune(rg.Hi) {
				return '0' + (r-rune(rg.Lo))%10
			}
		}
		return r
	}, s)
}

// NormalizeName turns a display name into the target directory name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
