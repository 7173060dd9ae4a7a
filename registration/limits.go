package registration

import (
	"strings"
	"unicode/utf8"

	"github.com/cdsmodel/cellbridge/domain/entities"
	"github.com/cdsmodel/cellbridge/domain/errors"
)

// Host limits on a single registration call.
const (
	// MaxArgs is the largest signature the host accepts, return slot included.
	MaxArgs = 30

	// MaxStringLen is the longest string operand the host accepts.
	MaxStringLen = 255

	// MaxDocumentedArgs is how many argument descriptions fit in one
	// register call after the ten fixed operands.
	MaxDocumentedArgs = 20
)

// ArgMarker is the signature character for a tagged-value argument.
const ArgMarker = 'P'

// WorksheetVersion is the version operand marking a worksheet function.
const WorksheetVersion = " 1"

const blank = " "

// Signature returns the type string for a function with arity inputs.
func Signature(function string, arity int) (string, error) {
	n := arity + 1
	if n > MaxArgs {
		return "", &errors.RegistrationLimitError{
			Function: function,
			Limit:    "arguments",
			Max:      MaxArgs,
			Actual:   n,
		}
	}
	return strings.Repeat(string(ArgMarker), n), nil
}

// NameBudget is the longest argument-name list the host accepts for a
// function registered under displayName.
func NameBudget(displayName string) int {
	return MaxStringLen - (len(displayName) + 2)
}

// ArgumentNames joins the parameter names with commas. Each name is charged
// one extra byte for its separator; a list over NameBudget fails.
func ArgumentNames(displayName string, params []entities.ParamSpec) (string, error) {
	budget := NameBudget(displayName)
	used := 0
	names := make([]string, len(params))
	for i, p := range params {
		used += len(p.Name) + 1
		if used > budget {
			return "", &errors.RegistrationLimitError{
				Function: displayName,
				Limit:    "argument_names",
				Max:      budget,
				Actual:   used,
			}
		}
		names[i] = p.Name
	}
	return strings.Join(names, ","), nil
}

// Truncate cuts s to MaxStringLen bytes without splitting a rune.
func Truncate(s string) string {
	if len(s) <= MaxStringLen {
		return s
	}
	cut := MaxStringLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// orBlank substitutes a single space for empty text; the host rejects empty
// operands.
func orBlank(s string) string {
	if s == "" {
		return blank
	}
	return Truncate(s)
}

// argumentHelp returns the descriptions of the first MaxDocumentedArgs
// parameters.
func argumentHelp(params []entities.ParamSpec) []string {
	n := min(len(params), MaxDocumentedArgs)
	help := make([]string, n)
	for i := range n {
		help[i] = orBlank(params[i].Description)
	}
	return help
}
