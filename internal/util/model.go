package util

import (
	"strings"
)

// NormalizeModelKey maps a user-supplied model name to a pricing family key.
// Accepts the short family keys directly ("sonnet", "opus", "opus-4",
// "haiku") as well as full Claude model identifiers such as
// "claude-sonnet-4-20250514".
func NormalizeModelKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))

	switch key {
	case "sonnet", "opus", "opus-4", "haiku":
		return key
	}

	// Full identifiers keep the family name between the prefix and date
	if strings.Contains(key, "opus-4-") || strings.HasSuffix(key, "opus-4") {
		return "opus-4"
	}
	if strings.Contains(key, "opus") {
		return "opus"
	}
	if strings.Contains(key, "haiku") {
		return "haiku"
	}
	if strings.Contains(key, "sonnet") {
		return "sonnet"
	}

	return ""
}

// SupportedModelKeys lists the pricing family keys accepted by --model.
func SupportedModelKeys() []string {
	return []string{"sonnet", "opus", "opus-4", "haiku"}
}
