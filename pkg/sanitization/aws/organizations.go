package aws

import (
	"regexp"

	"github.com/orgforge/orgforge/pkg/sanitization"
)

// OrganizationalUnitSanitizer returns a sanitized OU name when applied.
var OrganizationalUnitSanitizer = sanitization.NewSanitizer(
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w\s.-]`),
		Replacement: "-",
	},
)

var AccountSanitizer = sanitization.NewSanitizer(
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w\s.-]`),
		Replacement: "-",
	},
)

var OrganizationPolicySanitizer = sanitization.NewSanitizer(
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w\s.-]`),
		Replacement: "-",
	},
)
