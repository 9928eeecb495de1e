package hgconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestGenerateServerBlock(t *testing.T) {
	out := Generate(RoleServer, Options{RepoName: "fbsource"})

	assert.Equal(t,
		"[extensions]\n"+
			"remotefilelog=\n"+
			"\n[remotefilelog]\n"+
			"server=True\n"+
			"reponame=fbsource\n",
		out)
}

func TestGenerateShallowClientBlock(t *testing.T) {
	out := Generate(RoleClient, Options{
		RepoName:  "fbsource",
		CachePath: "/tmp/cache",
		Shallow:   ldvalue.NewOptionalBool(true),
	})

	assert.Equal(t,
		"[extensions]\n"+
			"remotefilelog=\n"+
			"\n[remotefilelog]\n"+
			"reponame=fbsource\n"+
			"cachepath=/tmp/cache\n"+
			"shallow=True\n",
		out)
}

func TestGenerateTreeRolesIncludeTreemanifestSection(t *testing.T) {
	server := Generate(RoleShallowTreeServer, Options{
		RepoName:  "repo",
		SendTrees: ldvalue.NewOptionalBool(true),
	})
	assert.Contains(t, server, "treemanifest=\n")
	assert.Contains(t, server, "[treemanifest]\nserver=True\nsendtrees=True\n")

	client := Generate(RoleShallowTreeClient, Options{
		RepoName: "repo",
		TreeOnly: ldvalue.NewOptionalBool(true),
	})
	assert.Contains(t, client, "[treemanifest]\ntreeonly=True\n")
	assert.NotContains(t, strings.SplitAfter(client, "[treemanifest]")[1], "server=True")
}

func TestGenerateUndefinedBoolsEmitNothing(t *testing.T) {
	out := Generate(RoleClient, Options{RepoName: "repo"})
	assert.NotContains(t, out, "shallow=")
	assert.NotContains(t, out, "[treemanifest]")

	// An explicit false is not the same as undefined.
	out = Generate(RoleClient, Options{RepoName: "repo", Shallow: ldvalue.NewOptionalBool(false)})
	assert.Contains(t, out, "shallow=False\n")
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := Options{
		RepoName:  "repo",
		CachePath: "/cache",
		SendTrees: ldvalue.NewOptionalBool(true),
		TreeOnly:  ldvalue.NewOptionalBool(false),
		Shallow:   ldvalue.NewOptionalBool(true),
	}
	for _, role := range []Role{RoleServer, RoleClient, RoleShallowTreeServer, RoleShallowTreeClient} {
		assert.Equal(t, Generate(role, opts), Generate(role, opts), "role %s", role)
	}
}

func TestGenerateDoesNotCrossValidate(t *testing.T) {
	// tree_only on a server is nonsense, but rejecting it is the backend's
	// job; the generator passes it through.
	out := Generate(RoleServer, Options{TreeOnly: ldvalue.NewOptionalBool(true)})
	assert.Contains(t, out, "treeonly=True\n")
	assert.Contains(t, out, "server=True\n")
}

func TestParseRole(t *testing.T) {
	for _, name := range []string{"server", "client", "shallow-tree-server", "shallow-tree-client"} {
		role, err := ParseRole(name)
		require.NoError(t, err)
		assert.Equal(t, Role(name), role)
	}

	_, err := ParseRole("peer")
	assert.Error(t, err)
}

func TestAppendKeepsBlocksInCallOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hgrc")

	serverBlock := Generate(RoleServer, Options{RepoName: "first"})
	clientBlock := Generate(RoleClient, Options{RepoName: "second"})

	require.NoError(t, Append(path, serverBlock))
	require.NoError(t, Append(path, clientBlock))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	// Both blocks are present, in call order; which reponame wins is the
	// consuming parser's last-wins rule, not ours.
	first := strings.Index(text, "reponame=first")
	second := strings.Index(text, "reponame=second")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}
