// Package validate provides pure field-level validators consumed by the
// auth and payment request handlers. Validators have no side effects and
// perform no I/O.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akuaasantewaa/fitta/internal/errors"
)

// Rule describes the validation constraints for a single form field.
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// PatternMessage is shown when Pattern does not match.
	PatternMessage string
	// EqualsField names another field whose value must match exactly.
	EqualsField string
	// Label is the human-readable field name used in messages.
	Label string
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s-]{9,15}$`)
)

// fieldRules is the closed rule set. Unknown fields pass validation so
// handlers can carry extra metadata without tripping the validator.
var fieldRules = map[string]Rule{
	"name": {
		Required:  true,
		MinLength: 2,
		MaxLength: 80,
		Label:     "Name",
	},
	"email": {
		Required:       true,
		MaxLength:      254,
		Pattern:        emailPattern,
		PatternMessage: "Enter a valid email address",
		Label:          "Email",
	},
	"phone": {
		Required:       false,
		Pattern:        phonePattern,
		PatternMessage: "Enter a valid phone number",
		Label:          "Phone",
	},
	"password": {
		Required:  true,
		MinLength: 8,
		MaxLength: 72, // bcrypt input limit
		Label:     "Password",
	},
	"confirmPassword": {
		Required:    true,
		EqualsField: "password",
		Label:       "Confirm password",
	},
}

// Field validates a single named field against the rule set.
// The whole-form snapshot is needed for cross-field rules.
// Returns nil when the value is acceptable.
func Field(name, value string, form map[string]string) error {
	rule, ok := fieldRules[name]
	if !ok {
		return nil
	}

	trimmed := strings.TrimSpace(value)
	if rule.Required && trimmed == "" {
		return errors.ValidationFailed(name, fmt.Sprintf("%s is required", rule.Label))
	}
	if trimmed == "" {
		return nil
	}

	if rule.MinLength > 0 && len(trimmed) < rule.MinLength {
		return errors.ValidationFailed(name, fmt.Sprintf("%s must be at least %d characters", rule.Label, rule.MinLength))
	}
	if rule.MaxLength > 0 && len(trimmed) > rule.MaxLength {
		return errors.ValidationFailed(name, fmt.Sprintf("%s must be at most %d characters", rule.Label, rule.MaxLength))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(trimmed) {
		return errors.ValidationFailed(name, rule.PatternMessage)
	}
	if rule.EqualsField != "" {
		if other, present := form[rule.EqualsField]; !present || value != other {
			return errors.ValidationFailed(name, fmt.Sprintf("%s does not match", rule.Label))
		}
	}

	return nil
}

// Form validates every known field present in the snapshot plus all
// required fields, returning field-keyed messages. An empty map means
// the form is valid.
func Form(form map[string]string) map[string]string {
	result := map[string]string{}
	for name, rule := range fieldRules {
		value, present := form[name]
		if !present && !rule.Required {
			continue
		}
		if err := Field(name, value, form); err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				result[name] = appErr.Message
			} else {
				result[name] = err.Error()
			}
		}
	}
	return result
}
