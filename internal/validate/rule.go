// Package validate is the declarative field-rule engine behind every form.
//
// A Rule describes one field; Check evaluates it in a fixed order (required,
// then min length, max length, pattern, then the custom check) and returns the
// first violation as a human-readable message, or "" when the value is valid.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule is the per-field rule descriptor. Zero values disable a check.
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// Custom runs only when every other check passed. It returns "" for valid.
	Custom func(value string) string
}

// DefaultPatternMessage is used when a field has no entry in PatternMessages.
const DefaultPatternMessage = "Invalid format"

// PatternMessages maps a field name to the message shown on a pattern mismatch.
var PatternMessages = map[string]string{
	"pan":            "Please enter a valid PAN number (e.g. ABCDE1234F)",
	"ifsc":           "Please enter a valid IFSC code (e.g. HDFC0123456)",
	"mobile":         "Please enter a valid 10-digit mobile number",
	"nomineeMobile":  "Please enter a valid 10-digit mobile number",
	"email":          "Please enter a valid email address",
	"date":           "Date must be in YYYY-MM-DD format",
	"asOnDate":       "Date must be in YYYY-MM-DD format",
	"tag":            "Tag must be Old or New",
	"type":           "Type must be Profit or Loss",
	"status":         "Status must be active or inactive",
	"latestVersion":  "Version must look like 1.2.3",
	"minimumVersion": "Version must look like 1.2.3",
	"accountNumber":  "Account number must be 9 to 18 digits",
}

// Check validates one field value against rule. field selects the pattern
// message; label is the human name used in required/length messages.
func Check(field, label string, value string, rule Rule) string {
	if strings.TrimSpace(value) == "" {
		if rule.Required {
			return label + " is required"
		}
		return ""
	}

	n := utf8.RuneCountInString(value)
	if rule.MinLength > 0 && n < rule.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", label, rule.MinLength)
	}
	if rule.MaxLength > 0 && n > rule.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", label, rule.MaxLength)
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		if msg, ok := PatternMessages[field]; ok {
			return msg
		}
		return DefaultPatternMessage
	}

	if rule.Custom != nil {
		return rule.Custom(value)
	}
	return ""
}
