package render

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup that is unsafe to embed in a page.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer allows the formatting, link and image markup found in episode show notes.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Sanitizer{policy: policy}
}

func (s *Sanitizer) Run(html string) string {
	return s.policy.Sanitize(html)
}
