package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	MinTableNumber = 1
	MaxTableNumber = 20
)

// optional leading "+", then 10-15 digits
var phoneRegex = regexp.MustCompile(`^\+?\d{10,15}$`)

// ParseTableNumber accepts integers in [MinTableNumber, MaxTableNumber]
func ParseTableNumber(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrTableNotNumber
	}
	if n < MinTableNumber || n > MaxTableNumber {
		return 0, ErrTableOutOfRange
	}
	return n, nil
}

// ValidatePhone checks the international phone pattern
func ValidatePhone(input string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(input)) {
		return ErrInvalidPhone
	}
	return nil
}

// RequireText rejects blank free-text answers
func RequireText(input string) (string, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}
