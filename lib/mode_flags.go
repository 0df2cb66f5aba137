package lib

import (
	"fmt"
	"strings"
)

// CheckStrictness indicates how the "check" mode should behave when it
// encounters an error.
type CheckStrictness int
const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)

func (s CheckStrictness) String() string {
	switch s {
	case CrashOnError: return "crash"
	case WarnOnError: return "warn"
	}
	return fmt.Sprintf("CheckStrictness(%d)", int(s))
}

// ParseStrictness converts the config value of Strictness into a
// CheckStrictness. The empty string is CrashOnError.
func ParseStrictness(s string) (CheckStrictness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "crash": return CrashOnError, nil
	case "warn": return WarnOnError, nil
	}
	return CrashOnError, fmt.Errorf("Strictness is set to '%s', but the " +
		"only valid values are 'crash' and 'warn'.", s)
}
