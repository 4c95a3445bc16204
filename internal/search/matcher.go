// Package search finds the most recent commit whose message matches a
// regular expression.
package search

import (
	"fmt"
	"regexp"

	"github.com/poy5861R/scutiger/internal/git"
)

// InvalidPatternError reports a regular expression that failed to compile.
// The compilation error is preserved so front-ends can report it verbatim.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid regular expression: %v", e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Matcher is a compiled predicate over commit messages.
type Matcher struct {
	re          *regexp.Regexp
	summaryOnly bool
}

// NewMatcher compiles pattern once. With summaryOnly set, the predicate
// applies only to the first line of the message. A pattern that does not
// compile reports *InvalidPatternError before any repository access happens.
func NewMatcher(pattern string, summaryOnly bool) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	return &Matcher{re: re, summaryOnly: summaryOnly}, nil
}

// Matches reports whether the commit's message satisfies the pattern.
func (m *Matcher) Matches(c *git.CommitRecord) bool {
	if m.summaryOnly {
		return m.re.MatchString(c.Summary())
	}
	return m.re.MatchString(c.Message)
}
