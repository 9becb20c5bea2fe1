// Package answer models the outcome of answer synthesis.
package answer

// Answer is either an available text or an unavailable outcome with a reason.
// The zero value is unavailable.
type Answer struct {
	text      string
	available bool
	reason    string
}

// Available wraps a synthesized answer text.
func Available(text string) Answer {
	return Answer{text: text, available: true}
}

// Unavailable records why no answer was produced.
func Unavailable(reason string) Answer {
	return Answer{reason: reason}
}

// IsAvailable reports whether an answer text exists.
func (a Answer) IsAvailable() bool { return a.available }

// Text returns the answer text (empty when unavailable).
func (a Answer) Text() string { return a.text }

// Reason returns the failure reason (empty when available).
func (a Answer) Reason() string { return a.reason }

// Ptr returns the answer text as a pointer, nil when unavailable.
func (a Answer) Ptr() *string {
	if !a.available {
		return nil
	}
	t := a.text
	return &t
}
