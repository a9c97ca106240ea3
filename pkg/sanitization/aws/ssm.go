package aws

import (
	"regexp"

	"github.com/orgforge/orgforge/pkg/sanitization"
)

// SsmParameterSanitizer returns a sanitized parameter path when applied.
// Path separators are preserved; anything else outside the allowed charset
// collapses to "_".
var SsmParameterSanitizer = sanitization.NewSanitizer(
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w.\-/]`),
		Replacement: "_",
	},
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`/{2,}`),
		Replacement: "/",
	},
)
