package truncation

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the degradation level of prompt construction
type Mode string

const (
	// ModeOrigin sends the full raw diff
	ModeOrigin Mode = "origin"
	// ModeDigestTest sends the raw diff of source files and digests of test files
	ModeDigestTest Mode = "digest_test"
	// ModeDigestAll sends digests only
	ModeDigestAll Mode = "digest_all"
)

// ErrUnknownMode is returned for any value outside the closed Mode set
var ErrUnknownMode = errors.New("unknown digest mode")

var modeOrder = []Mode{ModeOrigin, ModeDigestTest, ModeDigestAll}

// Modes returns every mode in escalation order
func Modes() []Mode {
	return append([]Mode(nil), modeOrder...)
}

// ParseMode validates a user-supplied mode name. Hyphens are accepted in place of underscores.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownMode, s, modeOrder)
	}
	return m, nil
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	for _, known := range modeOrder {
		if m == known {
			return true
		}
	}
	return false
}

// Next returns the following degradation level; ok is false once the digest_all level is reached
func (m Mode) Next() (next Mode, ok bool) {
	switch m {
	case ModeOrigin:
		return ModeDigestTest, true
	case ModeDigestTest:
		return ModeDigestAll, true
	default:
		return m, false
	}
}

func (m Mode) String() string {
	return string(m)
}
