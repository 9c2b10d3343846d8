package validate

import (
	"errors"
	"strings"
)

// ErrFileUnreadable reports a missing file or one whose header or samples
// could not be decoded.
var ErrFileUnreadable = errors.New("validate: file unreadable")

// Check names one conformance check.
type Check string

const (
	CheckSampleRate Check = "sample_rate"
	CheckDuration   Check = "duration"
	CheckSubtype    Check = "subtype"
	CheckChannels   Check = "channels"
	CheckPeak       Check = "peak"
	CheckSilence    Check = "silence"
)

// Reason is one failed check.
type Reason struct {
	Check    Check
	Expected string
	Actual   string
	Message  string
}

func (r Reason) String() string { return r.Message }

// FailureError collects every failed check for one file.
type FailureError struct {
	Path    string
	Reasons []Reason
}

func (e *FailureError) Error() string {
	var b strings.Builder
	b.WriteString("WAV file validation failed for ")
	b.WriteString(e.Path)
	b.WriteString(":")
	for _, r := range e.Reasons {
		b.WriteString("\n- ")
		b.WriteString(r.Message)
	}
	return b.String()
}

// Has reports whether check is among the failures.
func (e *FailureError) Has(check Check) bool {
	for _, r := range e.Reasons {
		if r.Check == check {
			return true
		}
	}
	return false
}

// Checks returns the failed checks in report order.
func (e *FailureError) Checks() []Check {
	out := make([]Check, len(e.Reasons))
	for i, r := range e.Reasons {
		out[i] = r.Check
	}
	return out
}
