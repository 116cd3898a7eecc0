package catalog

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	docsPolicyOnce sync.Once
	docsPolicy     *bluemonday.Policy
)

// sanitizeDescription keeps the small inline subset allowed in documentation
// blurbs; anything else is stripped.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(docsSanitizer().Sanitize(trimmed))
}

func docsSanitizer() *bluemonday.Policy {
	docsPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		docsPolicy = policy
	})
	return docsPolicy
}
