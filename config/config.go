// Package config loads the project-level ".diamantrc.yaml" sidecar,
// the way tawago/main.go reads its "Tawa Module Information" YAML
// manifest with gopkg.in/yaml.v2.
package config

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultFilename is the sidecar file cmd/diamantc loads from the
// current directory.
const DefaultFilename = ".diamantrc.yaml"

// Config holds the project-level settings spec.md's CLI (§6) and
// front-end behavior can be tuned by.
type Config struct {
	// Package names the module, mirroring tawago's tawaModule.Package.
	Package string `yaml:"package"`
	// TabWidth overrides the lexer's tab-stop width (spec.md §4.1 default
	// is 8).
	TabWidth int `yaml:"tabWidth"`
	// WarningsAsErrors promotes annotator warnings (spec.md §7, e.g.
	// unused variable) to fatal diagnostics.
	WarningsAsErrors bool `yaml:"warningsAsErrors"`
	// Sources lists the files the source/lex/parse/pp commands operate on
	// by default when no file argument is given.
	Sources []string `yaml:"sources"`
}

// Default returns the configuration used when no sidecar file exists.
func Default() Config {
	return Config{TabWidth: 8}
}

// Load reads and parses filename. A missing file is not an error; it
// yields Default().
func Load(filename string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.TabWidth == 0 {
		cfg.TabWidth = 8
	}
	return cfg, nil
}

// Save writes cfg to filename as YAML, mirroring tawago main.go's
// `init` command writing "Tawa Module Information".
func Save(filename string, cfg Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0o644)
}
