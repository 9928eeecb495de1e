package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"

	"github.com/mononoke-scm/testharness/hgconfig"
)

// Manifest declares a set of repositories to configure in one setup call.
type Manifest struct {
	Repos []RepoFixture `yaml:"repos"`
}

// RepoFixture is one repository entry in a manifest. The pointer booleans are
// tri-state: a key absent from the YAML emits no configuration line, which is
// not the same as an explicit false.
type RepoFixture struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	Role      string `yaml:"role"`
	RepoName  string `yaml:"reponame"`
	CachePath string `yaml:"cachepath"`
	SendTrees *bool  `yaml:"sendtrees"`
	TreeOnly  *bool  `yaml:"treeonly"`
	Shallow   *bool  `yaml:"shallow"`
}

// Options converts the manifest entry into generator options.
func (r RepoFixture) Options() hgconfig.Options {
	return hgconfig.Options{
		RepoName:  r.RepoName,
		CachePath: r.CachePath,
		SendTrees: optBool(r.SendTrees),
		TreeOnly:  optBool(r.TreeOnly),
		Shallow:   optBool(r.Shallow),
	}
}

func optBool(v *bool) ldvalue.OptionalBool {
	if v == nil {
		return ldvalue.OptionalBool{}
	}
	return ldvalue.NewOptionalBool(*v)
}

// LoadManifest reads and validates a fixture manifest.
func LoadManifest(fsys fs.FS, name string) (Manifest, error) {
	var m Manifest

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest: %w", err)
	}

	for i, repo := range m.Repos {
		if repo.Name == "" {
			return m, fmt.Errorf("repos[%d]: missing name", i)
		}
		if repo.Path == "" {
			return m, fmt.Errorf("repos[%d] (%s): missing path", i, repo.Name)
		}
		if _, err := hgconfig.ParseRole(repo.Role); err != nil {
			return m, fmt.Errorf("repos[%d] (%s): %w", i, repo.Name, err)
		}
	}

	return m, nil
}

// LoadManifestFile is LoadManifest against the real filesystem.
func LoadManifestFile(path string) (Manifest, error) {
	return LoadManifest(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
