package aws

import (
	"regexp"

	"github.com/orgforge/orgforge/pkg/sanitization"
)

// IamRoleSanitizer returns a sanitized IAM role name when applied.
var IamRoleSanitizer = sanitization.NewSanitizer(
	// IAM names allow alphanumerics and +=,.@-_
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w+=,.@-]`),
		Replacement: "_",
	},
)

var IamPolicySanitizer = sanitization.NewSanitizer(
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w+=,.@-]`),
		Replacement: "_",
	},
)

var IamUserSanitizer = sanitization.NewSanitizer(
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w+=,.@-]`),
		Replacement: "_",
	},
)

var IamGroupSanitizer = sanitization.NewSanitizer(
	sanitization.Rule{
		Pattern:     regexp.MustCompile(`[^\w+=,.@-]`),
		Replacement: "_",
	},
)
