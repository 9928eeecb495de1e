// Package hgconfig generates hgrc configuration blocks for repositories that
// participate in integration tests in different roles: a central server, a
// shallow client, or a tree-manifest-enabled peer.
//
// Generation is a pure function of the role and options; writing the result
// to a repository's hgrc is a separate, append-only step. Blocks are appended
// rather than merged, so when two blocks set the same key, which one wins is
// decided by the consuming parser's last-wins rule, not by this package.
package hgconfig

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Role selects the configuration profile for one repository.
type Role string

const (
	RoleServer            Role = "server"
	RoleClient            Role = "client"
	RoleShallowTreeServer Role = "shallow-tree-server"
	RoleShallowTreeClient Role = "shallow-tree-client"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleServer, RoleClient, RoleShallowTreeServer, RoleShallowTreeClient:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown repository role %q", s)
}

func (r Role) isServer() bool {
	return r == RoleServer || r == RoleShallowTreeServer
}

func (r Role) isTree() bool {
	return r == RoleShallowTreeServer || r == RoleShallowTreeClient
}

// Options are the recognized per-repository settings. The boolean options are
// tri-state: an undefined option emits no line at all, which is different from
// an explicit False.
type Options struct {
	RepoName  string
	CachePath string
	SendTrees ldvalue.OptionalBool
	TreeOnly  ldvalue.OptionalBool
	Shallow   ldvalue.OptionalBool
}

// Generate returns the hgrc text for a role and options. It is deterministic:
// identical inputs produce byte-identical output. It performs no cross-field
// validation; a combination the backend considers invalid (say, tree_only on
// a server) is passed through for the backend's own parser to reject.
func Generate(role Role, opts Options) string {
	var b strings.Builder

	b.WriteString("[extensions]\n")
	b.WriteString("remotefilelog=\n")
	if role.isTree() {
		b.WriteString("treemanifest=\n")
	}

	b.WriteString("\n[remotefilelog]\n")
	if role.isServer() {
		b.WriteString("server=True\n")
	}
	if opts.RepoName != "" {
		fmt.Fprintf(&b, "reponame=%s\n", opts.RepoName)
	}
	if opts.CachePath != "" {
		fmt.Fprintf(&b, "cachepath=%s\n", opts.CachePath)
	}
	if opts.Shallow.IsDefined() {
		fmt.Fprintf(&b, "shallow=%s\n", hgBool(opts.Shallow.BoolValue()))
	}

	if role.isTree() || opts.SendTrees.IsDefined() || opts.TreeOnly.IsDefined() {
		b.WriteString("\n[treemanifest]\n")
		if role.isServer() && role.isTree() {
			b.WriteString("server=True\n")
		}
		if opts.SendTrees.IsDefined() {
			fmt.Fprintf(&b, "sendtrees=%s\n", hgBool(opts.SendTrees.BoolValue()))
		}
		if opts.TreeOnly.IsDefined() {
			fmt.Fprintf(&b, "treeonly=%s\n", hgBool(opts.TreeOnly.BoolValue()))
		}
	}

	return b.String()
}

func hgBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// Append writes a generated block to the end of an hgrc file, creating the
// file if needed. Earlier blocks are never rewritten; call order therefore
// determines the effective configuration when keys collide.
func Append(path string, block string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(block, "\n") {
		block += "\n"
	}
	if _, err := f.WriteString(block + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
