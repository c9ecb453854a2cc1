package models

import (
	"strings"

	dErrors "licentia/pkg/domain-errors"
)

// NormalizeRepCode validates and canonicalizes a rep code.
// Empty or whitespace-only input means "no rep code" and returns nil.
// Anything else must be exactly 5 alphanumeric characters; the stored
// form is uppercased.
func NormalizeRepCode(raw string) (*string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if len(s) != 5 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "rep code must be exactly 5 alphanumeric characters")
	}
	for _, r := range s {
		alnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !alnum {
			return nil, dErrors.New(dErrors.CodeBadRequest, "rep code must be exactly 5 alphanumeric characters")
		}
	}
	up := strings.ToUpper(s)
	return &up, nil
}
