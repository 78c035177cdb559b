package services

import (
	"fmt"
	"regexp"
)

// phoneRegex enforces the wire format "+<country> <8 digits>", e.g. "+228 90123456".
// Matching is exact; no normalization happens anywhere else, so quota pooling
// and referral lookup compare phone strings byte for byte.
var phoneRegex = regexp.MustCompile(`^\+[0-9]{1,3} [0-9]{8}$`)

// ValidatePhone rejects phone numbers that do not match the required format
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number %q, expected format: +XXX XXXXXXXX", phone)
	}
	return nil
}
