package fixtures

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mononoke-scm/testharness/hgconfig"
)

// StepResult is the outcome of configuring one repository from a manifest.
type StepResult struct {
	Repo string
	Role hgconfig.Role
	Err  error
}

func (s StepResult) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s (%s): %s", s.Repo, s.Role, s.Err)
	}
	return fmt.Sprintf("%s (%s)", s.Repo, s.Role)
}

// Results accumulates the outcome of applying a manifest.
type Results struct {
	Steps    []StepResult
	Failures []StepResult
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Filter decides whether a given repository from a manifest should be
// configured in this run.
type Filter func(repoName string) bool

// RegexFilters selects repositories by name with include and exclude
// patterns, typically populated from -run and -skip command line options.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(repoName string) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(repoName)) &&
		!r.MustNotMatch.AnyMatch(repoName)
}

type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
