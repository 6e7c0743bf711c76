// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the settings of the at6502 command from a TOML or
// YAML file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of an assembly run. Zero values mean "not
// set"; command-line flags override them.
type Config struct {
	Sources  []string `toml:"sources" yaml:"sources"`
	Listing  string   `toml:"listing" yaml:"listing"`
	Output   string   `toml:"output" yaml:"output"`
	Symbols  string   `toml:"symbols" yaml:"symbols"`
	Map      string   `toml:"map" yaml:"map"`
	Console  bool     `toml:"console" yaml:"console"`
	Verbose  bool     `toml:"verbose" yaml:"verbose"`
	LogLevel string   `toml:"log_level" yaml:"log_level"`
	Include  string   `toml:"include_dir" yaml:"include_dir"`
	ROMs     []ROM    `toml:"rom" yaml:"roms"`
}

// ROM describes one ROM segment to extract from the assembled image.
type ROM struct {
	Dest      string `toml:"dest" yaml:"dest"`
	Start     uint16 `toml:"start" yaml:"start"`
	Length    int    `toml:"length" yaml:"length"`
	RomNum    *int   `toml:"romnum" yaml:"romnum"`
	ChkOff    *int   `toml:"chkoff" yaml:"chkoff"`
	ChkSymbol string `toml:"chksymbol" yaml:"chksymbol"`
}

// DefaultLogLevel is the log level used when none is configured.
const DefaultLogLevel = "warning"

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{LogLevel: DefaultLogLevel}
}

// Load reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, all others as TOML.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading configuration file %s", path)
	}

	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(contents, c)
	default:
		_, err = toml.Decode(string(contents), c)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding configuration file %s", path)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration file %s", path)
	}
	return c, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	for i, r := range c.ROMs {
		switch {
		case r.Dest == "":
			return errors.Errorf("rom %d: missing destination", i+1)
		case r.Length <= 0 || int(r.Start)+r.Length > 0x10000:
			return errors.Errorf("rom %d: invalid length %d at start %04X", i+1, r.Length, r.Start)
		}
	}
	return nil
}

// SourcePaths returns the source files resolved against the include
// directory, when one is set.
func (c *Config) SourcePaths() []string {
	paths := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		if c.Include != "" && !filepath.IsAbs(s) {
			s = filepath.Join(c.Include, s)
		}
		paths[i] = s
	}
	return paths
}
