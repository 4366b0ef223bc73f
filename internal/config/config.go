// Package config resolves the effective Configuration for a document:
// severity normalization against the rule catalogue, hierarchical discovery
// that walks ancestor directories respecting stop-markers, and the
// QUICKMARK_CONFIG environment override.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/ekropotin/quickmark-go/internal/rules"
	"github.com/ekropotin/quickmark-go/internal/rules/configutil"
)

// ConfigFileName is the single recognized configuration file name.
const ConfigFileName = "quickmark.toml"

// EnvOverrideVar names the environment variable that overrides discovery.
const EnvOverrideVar = "QUICKMARK_CONFIG"

// EnvSeverityPrefix is the prefix for per-rule severity overrides from the
// environment: QUICKMARK_SEVERITY_LINE_LENGTH=off maps to
// linters.severity.line-length. Environment values sit above the config
// file, below nothing.
const EnvSeverityPrefix = "QUICKMARK_SEVERITY_"

// defaultSeverityKey is the sentinel key in [linters.severity] that sets the
// default applied to every alias not explicitly set.
const defaultSeverityKey = "default"

// stopMarkers are files/directories whose presence in a directory halts
// ascent during discovery, even without a config file present.
var stopMarkers = []string{
	"package.json", "Cargo.toml", "pyproject.toml", "go.mod",
	".vscode", ".idea", ".sublime-project",
}

// Configuration is the effective, normalized configuration for one analysis.
type Configuration struct {
	// Severity maps every known rule alias to its effective severity. After
	// normalization the key set equals exactly the catalogue's alias set.
	Severity map[string]rules.Severity
	// Settings holds the raw `[linters.settings.<alias>]` table per alias,
	// decoded by each rule's factory via configutil.Resolve.
	Settings map[string]map[string]any
	// ConfigFile is the path the configuration was loaded from, or "" for
	// built-in defaults.
	ConfigFile string
}

// rawDocument mirrors the on-disk TOML shape before alias validation.
type rawDocument struct {
	Linters struct {
		Severity map[string]string         `koanf:"severity"`
		Settings map[string]map[string]any `koanf:"settings"`
	} `koanf:"linters"`
}

// baseline is the built-in defaults layer, loaded under every parsed
// document the same way a quickmark.toml carrying only the `default`
// sentinel would read.
func baseline() rawDocument {
	var d rawDocument
	d.Linters.Severity = map[string]string{defaultSeverityKey: "err"}
	return d
}

// Default returns the normalized default configuration: every catalogue
// alias at "error", no settings overrides.
func Default() *Configuration {
	return normalize(rawDocument{}, "")
}

// loadDocument layers defaults, the given source, and the environment
// severity overlay into one rawDocument: defaults < source < env.
func loadDocument(p koanf.Provider, parser koanf.Parser) (rawDocument, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(baseline(), "koanf"), nil); err != nil {
		return rawDocument{}, fmt.Errorf("defaults: %w", err)
	}
	if err := k.Load(p, parser); err != nil {
		return rawDocument{}, err
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvSeverityPrefix,
		TransformFunc: severityEnvTransform,
	}), nil); err != nil {
		return rawDocument{}, fmt.Errorf("environment: %w", err)
	}

	var doc rawDocument
	if err := k.Unmarshal("", &doc); err != nil {
		return rawDocument{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// severityEnvTransform maps QUICKMARK_SEVERITY_LINE_LENGTH to
// linters.severity.line-length: aliases are hyphenated, environment
// variable names are not.
func severityEnvTransform(key, value string) (string, any) {
	alias := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvSeverityPrefix)), "_", "-")
	return "linters.severity." + alias, value
}

// validateDocument rejects unknown severity tokens and settings tables that
// fail their rule's JSON Schema.
func validateDocument(doc rawDocument) error {
	for alias, token := range doc.Linters.Severity {
		if _, err := rules.ParseSeverity(token); err != nil {
			return fmt.Errorf("linters.severity.%s: %w", alias, err)
		}
	}
	return validateSettings(doc)
}

// Parse decodes a `[linters.severity]`/`[linters.settings.<alias>]` TOML
// document and normalizes it. Unknown severity tokens are a parse error;
// unknown aliases are dropped silently during normalization.
func Parse(text []byte) (*Configuration, error) {
	doc, err := loadDocument(rawbytes.Provider(text), toml.Parser())
	if err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return normalize(doc, ""), nil
}

// ParseFile reads and parses a configuration file at path.
func ParseFile(path string) (*Configuration, error) {
	doc, err := loadDocument(file.Provider(path), toml.Parser())
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return normalize(doc, path), nil
}

// validateSettings checks each configured alias's raw settings table against
// that rule's JSON Schema, if it declares one. Aliases with no registered
// descriptor or no Schema are not validated; normalize passes their tables
// through unchanged.
func validateSettings(doc rawDocument) error {
	for alias, settings := range doc.Linters.Settings {
		descriptor, known := rules.ByAlias(alias)
		if !known || descriptor.Schema == nil {
			continue
		}
		if err := configutil.ValidateWithSchema(settings, descriptor.Schema); err != nil {
			return fmt.Errorf("linters.settings.%s: %w", alias, err)
		}
	}
	return nil
}

// normalize builds the full per-alias severity map: the `default` sentinel
// (or "error" if absent) fills every alias not explicitly set; unknown
// aliases are discarded; the sentinel itself never appears in the result.
func normalize(doc rawDocument, configFile string) *Configuration {
	def := rules.SeverityError
	if token, ok := doc.Linters.Severity[defaultSeverityKey]; ok {
		if s, err := rules.ParseSeverity(token); err == nil {
			def = s
		}
	}

	aliases := rules.Aliases()
	severity := make(map[string]rules.Severity, len(aliases))
	for _, alias := range aliases {
		severity[alias] = def
	}
	for alias, token := range doc.Linters.Severity {
		if alias == defaultSeverityKey {
			continue
		}
		if _, known := rules.ByAlias(alias); !known {
			continue
		}
		if s, err := rules.ParseSeverity(token); err == nil {
			severity[alias] = s
		}
	}

	return &Configuration{
		Severity:   severity,
		Settings:   doc.Linters.Settings,
		ConfigFile: configFile,
	}
}

// DiscoveryResult is the outcome of Find walking a file's ancestor
// directories looking for ConfigFileName.
type DiscoveryResult struct {
	Path   string
	Config *Configuration
	Err    error
	Found  bool
	// Searched lists every candidate path probed, in ascent order, so a
	// not-found outcome can report where discovery looked.
	Searched []string
}

// Find starts from filePath's directory and looks for ConfigFileName at
// each ancestor, stopping ascent once the current directory is
// workspaceRoot (exact match, empty disables), contains a `.git` entry, or
// contains any of the stop markers. If the filesystem root is reached
// without finding a file, Found is false.
func Find(filePath, workspaceRoot string) DiscoveryResult {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return DiscoveryResult{}
	}
	dir := filepath.Dir(absPath)
	absWorkspaceRoot := ""
	if workspaceRoot != "" {
		if wr, err := filepath.Abs(workspaceRoot); err == nil {
			absWorkspaceRoot = wr
		}
	}

	var searched []string
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		searched = append(searched, candidate)
		if fileExists(candidate) {
			cfg, err := ParseFile(candidate)
			if err != nil {
				return DiscoveryResult{Path: candidate, Err: err, Searched: searched}
			}
			return DiscoveryResult{Path: candidate, Config: cfg, Found: true, Searched: searched}
		}

		if dir == absWorkspaceRoot || isStopDirectory(dir) {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return DiscoveryResult{Searched: searched}
}

// LoadOrDefault implements the load-or-default precedence: environment
// override > nearest discovered file > defaults. A read/parse error at any
// stage is logged and the normalized defaults are returned, so analysis can
// always proceed.
func LoadOrDefault(filePath, workspaceRoot string) *Configuration {
	if override := os.Getenv(EnvOverrideVar); override != "" {
		if fileExists(override) {
			cfg, err := ParseFile(override)
			if err != nil {
				logrus.WithFields(logrus.Fields{"env": EnvOverrideVar, "path": override}).
					WithError(err).Warn("config: failed to load override; using defaults")
				return Default()
			}
			return cfg
		}
		logrus.WithFields(logrus.Fields{"env": EnvOverrideVar, "path": override}).
			Warn("config: override path does not exist; using defaults")
		return Default()
	}

	result := Find(filePath, workspaceRoot)
	if result.Err != nil {
		logrus.WithField("path", result.Path).WithError(result.Err).
			Warn("config: failed to parse discovered file; using defaults")
		return Default()
	}
	if result.Found {
		return result.Config
	}
	logrus.WithField("searched", result.Searched).Debug("config: no configuration file found; using defaults")
	return Default()
}

func isStopDirectory(dir string) bool {
	if fileExists(filepath.Join(dir, ".git")) || dirExists(filepath.Join(dir, ".git")) {
		return true
	}
	for _, marker := range stopMarkers {
		p := filepath.Join(dir, marker)
		if fileExists(p) || dirExists(p) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
