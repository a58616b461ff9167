package domain

import (
	"fmt"
	"strings"
)

// Authorization level granted to location tracking by the provider.
type AuthorizationStatus int

const (
	AuthorizationNotDetermined AuthorizationStatus = iota
	AuthorizationRestricted
	AuthorizationDenied
	AuthorizationAlways
	AuthorizationWhenInUse
)

var authorizationNames = map[AuthorizationStatus]string{
	AuthorizationNotDetermined: "not-determined",
	AuthorizationRestricted:    "restricted",
	AuthorizationDenied:        "denied",
	AuthorizationAlways:        "always",
	AuthorizationWhenInUse:     "when-in-use",
}

func (s AuthorizationStatus) String() string {
	if name, ok := authorizationNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AuthorizationStatus(%d)", int(s))
}

// Authorized reports whether updates may be delivered under this status.
func (s AuthorizationStatus) Authorized() bool {
	return s == AuthorizationAlways || s == AuthorizationWhenInUse
}

func ParseAuthorizationStatus(s string) (AuthorizationStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for status, name := range authorizationNames {
		if name == norm {
			return status, nil
		}
	}
	return AuthorizationNotDetermined, fmt.Errorf("parse authorization status: unknown value %q", s)
}

func (s AuthorizationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AuthorizationStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthorizationStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
