package posts

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var checkboxType = regexp.MustCompile(`^checkbox$`)

// Sanitizer scrubs rendered HTML against an allowlist. Anything the policy
// does not name is dropped: script-capable elements, SVG and MathML, meta
// refreshes, event handler attributes and URLs outside http, https, mailto
// and relative references.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer built on bluemonday's user generated
// content policy, extended with the markup goldmark emits for posts: class
// names on code blocks and task list checkboxes.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("pre", "code", "span")
	policy.AllowAttrs("type").Matching(checkboxType).OnElements("input")
	policy.AllowAttrs("checked", "disabled").OnElements("input")
	return &Sanitizer{policy: policy}
}

// Sanitize returns fragment with everything outside the policy removed.
func (s *Sanitizer) Sanitize(fragment []byte) ([]byte, error) {
	return s.policy.SanitizeBytes(fragment), nil
}
