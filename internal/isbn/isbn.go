// Package isbn validates ISBN-10 and ISBN-13 check digits and extracts
// ISBN-like digit runs from OCR text.
package isbn

import (
	"regexp"
	"strings"
)

// candidate matches digit runs that may be an ISBN, allowing hyphen and
// space separators and a terminal X check character.
var candidate = regexp.MustCompile(`(?:97[89][- ]?)?(?:[0-9][- ]?){9}[0-9Xx]`)

// Normalize strips hyphens and spaces from an ISBN string.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

// Valid reports whether s is a checksum-valid ISBN-10 or ISBN-13.
// Pure and total: malformed input returns false, never an error.
func Valid(s string) bool {
	cleaned := Normalize(s)
	switch len(cleaned) {
	case 10:
		return validISBN10(cleaned)
	case 13:
		return validISBN13(cleaned)
	default:
		return false
	}
}

func validISBN10(s string) bool {
	sum := 0
	for i := 0; i < 9; i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * (10 - i)
	}
	last := s[9]
	switch {
	case last == 'X' || last == 'x':
		sum += 10
	case last >= '0' && last <= '9':
		sum += int(last - '0')
	default:
		return false
	}
	return sum%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return false
		}
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += int(d-'0') * weight
	}
	return sum%10 == 0
}

// ExtractFromText scans OCR text for ISBN-like digit runs and returns
// the first one that passes checksum validation, normalized. Returns
// the empty string when no valid ISBN is present; unvalidated digit
// runs are never returned.
func ExtractFromText(text string) string {
	for _, match := range candidate.FindAllString(text, -1) {
		cleaned := Normalize(match)
		if Valid(cleaned) {
			return cleaned
		}
	}
	return ""
}
