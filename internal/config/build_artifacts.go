// Build artifact detection from language-specific manifest files, used by
// the Scanner's generated-path classifier when a project doesn't follow
// the conventional dist/target/build naming.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector inspects manifest files at a project root and
// reports directories that manifest tooling writes generated output into.
type BuildArtifactDetector struct {
	root string
}

func NewBuildArtifactDetector(root string) *BuildArtifactDetector {
	return &BuildArtifactDetector{root: root}
}

// OutputDirectories returns repo-relative directory names (no trailing
// slash) that should be treated as generated, beyond the built-in deny
// list.
func (d *BuildArtifactDetector) OutputDirectories() []string {
	var dirs []string
	dirs = append(dirs, d.fromCargoToml()...)
	dirs = append(dirs, d.fromPackageJSON()...)
	return dirs
}

func (d *BuildArtifactDetector) fromCargoToml() []string {
	data, err := os.ReadFile(filepath.Join(d.root, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var manifest struct {
		Profile map[string]struct {
			BuildOverride struct {
				OutDir string `toml:"out-dir"`
			} `toml:"build-override"`
		} `toml:"profile"`
		Package struct {
			Metadata struct {
				TargetDir string `toml:"target-dir"`
			} `toml:"metadata"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	dirs := []string{"target"}
	for _, p := range manifest.Profile {
		if p.BuildOverride.OutDir != "" {
			dirs = append(dirs, p.BuildOverride.OutDir)
		}
	}
	if manifest.Package.Metadata.TargetDir != "" {
		dirs = append(dirs, manifest.Package.Metadata.TargetDir)
	}
	return dirs
}

func (d *BuildArtifactDetector) fromPackageJSON() []string {
	data, err := os.ReadFile(filepath.Join(d.root, "package.json"))
	if err != nil {
		return nil
	}
	var manifest struct {
		Directories struct {
			Output string `json:"output"`
			Dist   string `json:"dist"`
		} `json:"directories"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	var dirs []string
	if manifest.Directories.Output != "" {
		dirs = append(dirs, manifest.Directories.Output)
	}
	if manifest.Directories.Dist != "" {
		dirs = append(dirs, manifest.Directories.Dist)
	}
	return dirs
}
