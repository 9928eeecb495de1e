package fixtures

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mononoke-scm/testharness/hgconfig"
)

func TestRegexFilters(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.AsFilter("anything"), "no patterns means everything passes")

	require.NoError(t, f.MustMatch.Set("^repo-"))
	assert.True(t, f.AsFilter("repo-main"))
	assert.False(t, f.AsFilter("scratch"))

	require.NoError(t, f.MustNotMatch.Set("-wip$"))
	assert.True(t, f.AsFilter("repo-main"))
	assert.False(t, f.AsFilter("repo-feature-wip"))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var l RegexList
	assert.Error(t, l.Set("("))
	assert.False(t, l.IsDefined())
}

func TestResultsOK(t *testing.T) {
	var r Results
	assert.True(t, r.OK())

	step := StepResult{Repo: "central", Role: hgconfig.RoleServer, Err: errors.New("boom")}
	r.Steps = append(r.Steps, step)
	r.Failures = append(r.Failures, step)
	assert.False(t, r.OK())
	assert.Equal(t, "central (server): boom", step.String())
}

func TestServiceStateString(t *testing.T) {
	assert.Equal(t, "not started", NotStarted.String())
	assert.Equal(t, "launch failed", LaunchFailed.String())
	assert.Equal(t, "launched", Launched.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "timed out", TimedOut.String())
}
