package grep

import (
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when it exists and no other file is given.
const DefaultConfigFile = ".gsg.yaml"

// Config is the file-backed part of a run's settings. Command line flags
// override it.
type Config struct {
	Name string `yaml:"name"`
	// Extensions selects the files a directory expands to.
	Extensions []string `yaml:"extensions"`
	// Ignore holds doublestar globs of paths to skip.
	Ignore []string `yaml:"ignore,omitempty"`
	Hidden bool     `yaml:"hidden"`
	// NoIgnore disables .gitignore handling.
	NoIgnore bool `yaml:"no_ignore"`
	// Workers bounds the files searched in parallel; 0 means one per CPU.
	Workers   int    `yaml:"workers"`
	Multiline bool   `yaml:"multiline"`
	Format    string `yaml:"format,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Name:       "gsg",
		Extensions: []string{".go"},
	}
}

// LoadConfig reads the configuration file at path on top of the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, err
	}

	return config, nil
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
