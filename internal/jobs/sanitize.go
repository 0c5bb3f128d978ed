package jobs

import "github.com/microcosm-cc/bluemonday"

// Sanitizer cleans answer HTML before it is spliced into a job.
// *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(html string) string
}

// SanitizerFunc adapts a function into a Sanitizer.
type SanitizerFunc func(html string) string

func (f SanitizerFunc) Sanitize(html string) string { return f(html) }

// NewUGCSanitizer returns the bluemonday user generated content policy.
func NewUGCSanitizer() Sanitizer {
	return bluemonday.UGCPolicy()
}

// NewStrictSanitizer strips every tag.
func NewStrictSanitizer() Sanitizer {
	return bluemonday.StrictPolicy()
}
