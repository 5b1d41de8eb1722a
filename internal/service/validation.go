package service

import (
	"strings"
	"unicode/utf8"
)

const maxTitleLength = 100

func cleanTitle(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(field, "must not be blank")
	}
	if utf8.RuneCountInString(s) > maxTitleLength {
		return "", invalid(field, "must be at most 100 characters")
	}
	return s, nil
}

// validColor accepts "#RRGGBB".
func validColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
