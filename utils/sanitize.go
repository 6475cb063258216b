package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user-supplied text. The policy is
// direction-agnostic, so Persian and English content go through the same
// pipeline.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// CleanUserText sanitizes and trims. Every discussion write passes through it
// before length validation, so markup and whitespace cannot pad a too-short
// title or comment past the minimum.
func CleanUserText(input string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(input))
}
