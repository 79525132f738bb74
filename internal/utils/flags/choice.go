// Package flags describes and validates choice-valued Cobra flags.
package flags

import (
	"errors"
	"fmt"
	"strings"
)

const (
	choicePlaceholderTemplate = "<%s>"
	choiceSeparatorLiteral    = "|"
	choiceUsageEmptyTemplate  = "`%s`"
	choiceUsageFullTemplate   = "`%s` %s"
	invalidChoiceTemplate     = "%w %q for --%s (expected %s)"
)

// ErrInvalidChoice indicates a flag value outside its permitted choices.
var ErrInvalidChoice = errors.New("invalid value")

// ChoiceSet is the closed list of values accepted by one flag. Choices are trimmed and
// deduplicated case-insensitively, keeping the first spelling.
type ChoiceSet struct {
	flagName      string
	defaultChoice string
	choices       []string
}

// NewChoiceSet builds the choice set for flagName with defaultChoice highlighted in usage text.
func NewChoiceSet(flagName string, defaultChoice string, choices ...string) ChoiceSet {
	uniqueChoices := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 || containsFold(uniqueChoices, trimmedChoice) {
			continue
		}
		uniqueChoices = append(uniqueChoices, trimmedChoice)
	}
	return ChoiceSet{
		flagName:      flagName,
		defaultChoice: strings.TrimSpace(defaultChoice),
		choices:       uniqueChoices,
	}
}

// Usage renders the flag help as a placeholder listing every choice, the default in upper case,
// followed by description.
func (choiceSet ChoiceSet) Usage(description string) string {
	placeholder := choiceSet.placeholder(true)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// Normalize returns the canonical spelling of value, matched case-insensitively after trimming.
// A blank value yields an empty string so callers can fall back to configured defaults.
func (choiceSet ChoiceSet) Normalize(value string) (string, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", nil
	}
	for _, choice := range choiceSet.choices {
		if strings.EqualFold(choice, trimmedValue) {
			return choice, nil
		}
	}
	return "", fmt.Errorf(invalidChoiceTemplate, ErrInvalidChoice, value, choiceSet.flagName, choiceSet.placeholder(false))
}

func (choiceSet ChoiceSet) placeholder(highlightDefault bool) string {
	displayChoices := make([]string, len(choiceSet.choices))
	for choiceIndex, choice := range choiceSet.choices {
		if highlightDefault && strings.EqualFold(choice, choiceSet.defaultChoice) {
			choice = strings.ToUpper(choice)
		}
		displayChoices[choiceIndex] = choice
	}
	return fmt.Sprintf(choicePlaceholderTemplate, strings.Join(displayChoices, choiceSeparatorLiteral))
}

func containsFold(choices []string, candidate string) bool {
	for _, choice := range choices {
		if strings.EqualFold(choice, candidate) {
			return true
		}
	}
	return false
}
