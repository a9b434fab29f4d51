// Package config loads and validates the TOML patch set retouch runs against.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	m "github.com/flatgrass/retouch/internal/model"
)

const defaultStop = "const"

// Config captures the patch set stored in retouch.toml.
type Config struct {
	Inject     []InjectBlock     `toml:"inject"`
	Substitute []SubstituteBlock `toml:"substitute"`
}

// InjectBlock describes one line-insertion rule.
type InjectBlock struct {
	Name   string   `toml:"name"`
	Files  []string `toml:"files"`
	Marker string   `toml:"marker"`
	Anchor string   `toml:"anchor"`
	Stop   string   `toml:"stop"`
	Insert string   `toml:"insert"`
}

// SubstituteBlock describes one regular-expression rewrite rule.
type SubstituteBlock struct {
	Name        string   `toml:"name"`
	Files       []string `toml:"files"`
	Pattern     string   `toml:"pattern"`
	Replacement string   `toml:"replacement"`
}

var (
	// ErrNoRules indicates the config declares nothing to do.
	ErrNoRules = errors.New("config must declare at least one inject or substitute rule")
)

func (b *InjectBlock) applyDefaults() {
	if b == nil {
		return
	}

	if b.Stop == "" {
		b.Stop = defaultStop
	}

	if b.Marker == "" {
		b.Marker = strings.TrimSpace(b.Insert)
	}
}

func (b InjectBlock) validate() error {
	if b.Name == "" {
		return errors.New("inject rule is missing a name")
	}

	if len(b.Files) == 0 {
		return fmt.Errorf("inject %q: files must list at least one path", b.Name)
	}

	if b.Anchor == "" {
		return fmt.Errorf("inject %q: anchor must be set", b.Name)
	}

	if strings.TrimSpace(b.Insert) == "" {
		return fmt.Errorf("inject %q: insert must be a non-blank line", b.Name)
	}

	return nil
}

func (b SubstituteBlock) validate() error {
	if b.Name == "" {
		return errors.New("substitute rule is missing a name")
	}

	if len(b.Files) == 0 {
		return fmt.Errorf("substitute %q: files must list at least one path", b.Name)
	}

	if b.Pattern == "" {
		return fmt.Errorf("substitute %q: pattern must be set", b.Name)
	}

	if _, err := regexp.Compile(b.Pattern); err != nil {
		return fmt.Errorf("substitute %q: invalid pattern: %w", b.Name, err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	for i := range c.Inject {
		c.Inject[i].applyDefaults()
	}
}

// Validate ensures every rule carries enough information to run.
func (c Config) Validate() error {
	if len(c.Inject) == 0 && len(c.Substitute) == 0 {
		return ErrNoRules
	}

	for _, block := range c.Inject {
		if err := block.validate(); err != nil {
			return err
		}
	}

	for _, block := range c.Substitute {
		if err := block.validate(); err != nil {
			return err
		}
	}

	return nil
}

// Rules flattens the config into the domain rule list, inject rules first in
// declared order, then substitute rules in declared order.
func (c Config) Rules() []m.Rule {
	rules := make([]m.Rule, 0, len(c.Inject)+len(c.Substitute))

	for _, block := range c.Inject {
		rules = append(rules, m.Rule{
			Name:   block.Name,
			Kind:   m.RuleInject,
			Files:  toPaths(block.Files),
			Marker: block.Marker,
			Anchor: block.Anchor,
			Stop:   block.Stop,
			Insert: block.Insert,
		})
	}

	for _, block := range c.Substitute {
		rules = append(rules, m.Rule{
			Name:        block.Name,
			Kind:        m.RuleSubstitute,
			Files:       toPaths(block.Files),
			Pattern:     block.Pattern,
			Replacement: block.Replacement,
		})
	}

	return rules
}

// Load reads the patch set from disk. Relative target paths are resolved
// against the config file's directory. A missing file is an error: there is
// no sensible default patch set.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.resolveFiles(filepath.Dir(path))
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) resolveFiles(dir string) {
	for i := range c.Inject {
		c.Inject[i].Files = resolve(dir, c.Inject[i].Files)
	}

	for i := range c.Substitute {
		c.Substitute[i].Files = resolve(dir, c.Substitute[i].Files)
	}
}

func resolve(dir string, files []string) []string {
	resolved := make([]string, 0, len(files))

	for _, file := range files {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}

		resolved = append(resolved, filepath.Clean(file))
	}

	return resolved
}

func toPaths(files []string) []m.Path {
	paths := make([]m.Path, 0, len(files))
	for _, file := range files {
		paths = append(paths, m.Path(file))
	}

	return paths
}
