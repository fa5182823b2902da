package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce    sync.Once
	messagePolicy *bluemonday.Policy
	labelPolicy   *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()

		labelPolicy = bluemonday.StrictPolicy()
		labelPolicy.AllowElements("strong", "em", "b", "i", "br", "small")
	})
	return messagePolicy, labelPolicy
}

// sanitizeMessage strips every tag from a banner message. The result is
// escaped and safe to emit verbatim.
func sanitizeMessage(raw string) string {
	messages, _ := policies()
	return strings.TrimSpace(messages.Sanitize(strings.TrimSpace(raw)))
}

// sanitizeLabel keeps inline emphasis in a field label.
func sanitizeLabel(raw string) string {
	_, labels := policies()
	return strings.TrimSpace(labels.Sanitize(strings.TrimSpace(raw)))
}
