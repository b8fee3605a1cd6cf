// Package manifest loads lares YAML manifests.
//
// A manifest is an ordered list of steps, each holding copy, link and run
// actions plus a tag set that gates the step:
//
//	steps:
//	  - copy:
//	      - src: gitconfig
//	        dst: ~/.gitconfig
//	    tags: [linux, macos, windows]
//	  - link:
//	      - src: vimrc
//	        dst: ~/.vimrc
//	    run:
//	      - src: scripts/setup.sh
//	        prefix: sh
//	        postfix: $LARES_RULES
//	    tags: [linux, macos]
package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/lares/pkg/errors"
	"github.com/arthur-debert/lares/pkg/tags"
	"gopkg.in/yaml.v3"
)

// CopyLink describes the source and destination of a copy or link action.
// Src is relative to the manifest's base directory; Dst may be
// tilde-prefixed, absolute, or relative.
type CopyLink struct {
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`
}

// Run describes a script execution. Prefix and Postfix are literal shell
// tokens placed around the script path.
type Run struct {
	Src     string `yaml:"src"`
	Prefix  string `yaml:"prefix"`
	Postfix string `yaml:"postfix"`
}

// Step is one ordered unit of work, gated by a single tag check.
type Step struct {
	Copy []CopyLink `yaml:"copy"`
	Link []CopyLink `yaml:"link"`
	Run  []Run      `yaml:"run"`
	Tags []string   `yaml:"tags"`
}

// Manifest is a parsed manifest file. It is immutable after Load.
type Manifest struct {
	Steps []Step

	// BaseDir is the directory containing the manifest file. All relative
	// src and dst values are interpreted against it; the process working
	// directory is never changed.
	BaseDir string
}

type rawManifest struct {
	Steps []Step `yaml:"steps"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to read manifest %s", path)
	}

	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to parse manifest %s", path)
	}

	return &Manifest{
		Steps:   raw.Steps,
		BaseDir: filepath.Dir(path),
	}, nil
}

// Tags returns the sorted, de-duplicated union of all step tags.
func (m *Manifest) Tags() []string {
	seen := make(map[string]bool)
	for _, step := range m.Steps {
		for _, tag := range step.Tags {
			seen[tag] = true
		}
	}

	all := make([]string, 0, len(seen))
	for tag := range seen {
		all = append(all, tag)
	}
	sort.Strings(all)
	return all
}

// FilterSteps returns the steps whose tag set satisfies every rule, in
// manifest order.
func (m *Manifest) FilterSteps(rules []tags.Rule) []Step {
	filtered := make([]Step, 0, len(m.Steps))
	for _, step := range m.Steps {
		if tags.Match(rules, step.Tags) {
			filtered = append(filtered, step)
		}
	}
	return filtered
}
