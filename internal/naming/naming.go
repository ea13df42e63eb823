// Package naming converts declared command and event names into the
// identifiers used by generated code.
//
// Two names exist for every item. The call name is the lower-camel-case
// binding used in generated source. The wire name is the key passed across
// the invocation boundary, optionally namespaced by a Policy. Every render
// path goes through ToWireName so namespacing has one source of truth.
package naming

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ItemKind distinguishes the items a Policy can prefix.
type ItemKind string

const (
	KindCommand ItemKind = "command"
	KindEvent   ItemKind = "event"
)

// Placeholders recognised in a Rule template.
const (
	PlaceholderNamespace = "{namespace}"
	PlaceholderName      = "{name}"
)

// Rule is a template that builds a wire name from a namespace and a
// declared name, e.g. "plugin:{namespace}|{name}".
type Rule string

// Default rules, matching the plugin key layout of the runtime.
const (
	DefaultCommandRule Rule = "plugin:{namespace}|{name}"
	DefaultEventRule   Rule = "plugin:{namespace}:{name}"
)

// Apply expands the template.
func (r Rule) Apply(namespace, name string) string {
	return strings.NewReplacer(
		PlaceholderNamespace, namespace,
		PlaceholderName, name,
	).Replace(string(r))
}

// Validate reports templates that would drop the declared name.
func (r Rule) Validate() error {
	if !strings.Contains(string(r), PlaceholderName) {
		return fmt.Errorf("prefix rule %q must contain %s", string(r), PlaceholderName)
	}
	return nil
}

// Policy is the namespacing configuration shared by commands and events.
// The zero value applies no namespace.
type Policy struct {
	Namespace   string `json:"namespace,omitempty"`
	CommandRule Rule   `json:"command_rule,omitempty"` // empty = DefaultCommandRule
	EventRule   Rule   `json:"event_rule,omitempty"`   // empty = DefaultEventRule
}

// RuleFor returns the effective rule for kind.
func (p Policy) RuleFor(kind ItemKind) Rule {
	switch kind {
	case KindEvent:
		if p.EventRule != "" {
			return p.EventRule
		}
		return DefaultEventRule
	default:
		if p.CommandRule != "" {
			return p.CommandRule
		}
		return DefaultCommandRule
	}
}

// Validate checks both rules. A policy without a namespace is always valid.
func (p Policy) Validate() error {
	if p.Namespace == "" {
		return nil
	}
	for _, kind := range []ItemKind{KindCommand, KindEvent} {
		if err := p.RuleFor(kind).Validate(); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
	}
	return nil
}

// ToWireName returns the key used across the invocation boundary.
// Without a namespace the declared name is returned unchanged.
func ToWireName(declared string, kind ItemKind, policy Policy) string {
	if policy.Namespace == "" {
		return declared
	}
	return policy.RuleFor(kind).Apply(policy.Namespace, declared)
}

// ToCallName converts a declared name to lowerCamelCase.
//
//	user_logged_in -> userLoggedIn
//	XMLHttpRequest -> xmlHttpRequest
//	get-user       -> getUser
func ToCallName(declared string) string {
	words := splitWords(declared)
	if len(words) == 0 {
		return ""
	}

	// Casers are stateful; one per call keeps this safe for concurrent use.
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(capitalize(lower.String(w)))
	}
	return b.String()
}

// capitalize upper-cases the first rune of w. A word starting with a digit
// is left as is, so user_2fa becomes user2fa.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if !unicode.IsLetter(r) {
		return w
	}
	return string(unicode.ToTitle(r)) + w[size:]
}

// splitWords breaks an identifier at separators, at lower-to-upper
// transitions and before the last capital of an acronym run.
func splitWords(s string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsDigit(prev) && afterLower(cur)) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// afterLower reports whether the last letter in word is lower case.
// Digits carry the case of the letter before them.
func afterLower(word []rune) bool {
	for i := len(word) - 1; i >= 0; i-- {
		if unicode.IsLetter(word[i]) {
			return unicode.IsLower(word[i])
		}
	}
	return false
}
