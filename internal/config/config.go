// Package config loads server settings from, in increasing priority: defaults,
// a TOML file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort      = "3000"
	DefaultRealm     = "Imb4T3st4pp"
	DefaultLogLevel  = "info"
	DefaultIssuesDir = "issues"

	// ProjectConfigFile is picked up from the working directory when --config
	// isn't given.
	ProjectConfigFile = "depdash.toml"
)

type BasicAuth struct {
	Enabled  bool   `toml:"enabled"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Realm    string `toml:"realm"`
}

type Config struct {
	// Port is a TCP port number or, when not numeric, a unix socket path.
	Port string `toml:"port"`
	// IssuesDir is the root of issues/{project}/{repository}/{title}.md.
	IssuesDir string `toml:"issues_dir"`
	// TemplatePath overrides the embedded dashboard page template.
	TemplatePath string `toml:"template"`
	AllowHTML    bool   `toml:"allow_html"`
	LogLevel     string `toml:"log_level"`

	BasicAuth BasicAuth `toml:"basic_auth"`
}

func Default() Config {
	return Config{
		Port:      DefaultPort,
		IssuesDir: DefaultIssuesDir,
		LogLevel:  DefaultLogLevel,
		BasicAuth: BasicAuth{Realm: DefaultRealm},
	}
}

// Load applies defaults, then the config file, then the environment. path may
// be empty, in which case depdash.toml in the working directory is used if it
// exists. Flags are applied by the caller on top of the result.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(ProjectConfigFile); err == nil {
			path = ProjectConfigFile
		}
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if err := loadFromEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(filepath.Clean(path), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config, getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	setString("PORT", &cfg.Port)
	setString("DEPDASH_ISSUES_DIR", &cfg.IssuesDir)
	setString("DEPDASH_TEMPLATE", &cfg.TemplatePath)
	setString("DEPDASH_LOG_LEVEL", &cfg.LogLevel)
	setString("BASIC_AUTH_USERNAME", &cfg.BasicAuth.Username)
	setString("BASIC_AUTH_PASSWORD", &cfg.BasicAuth.Password)
	setString("BASIC_AUTH_REALM", &cfg.BasicAuth.Realm)
	if err := setBool("DEPDASH_ALLOW_HTML", &cfg.AllowHTML); err != nil {
		return err
	}
	return setBool("BASIC_AUTH_ENABLED", &cfg.BasicAuth.Enabled)
}

// Validate checks what every command needs: somewhere to find issues.
func (c Config) Validate() error {
	if strings.TrimSpace(c.IssuesDir) == "" {
		return errors.New("config: issues dir is empty")
	}
	return nil
}

// ValidateServe adds the listener and basic auth checks that only matter to
// the HTTP server.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.BasicAuth.Enabled && c.BasicAuth.Username == "" {
		return errors.New("config: basic auth enabled without a username")
	}
	if _, err := NormalizePort(c.Port); err != nil {
		return err
	}
	return nil
}

// Listener describes where the server listens.
type Listener struct {
	Network string // "tcp" or "unix"
	Address string
}

// Describe renders the listener the way startup messages refer to it.
func (l Listener) Describe() string {
	if l.Network == "unix" {
		return "pipe " + l.Address
	}
	return "port " + strings.TrimPrefix(l.Address, ":")
}

// NormalizePort turns a port setting into a listener: a non-negative number
// is a TCP port on all interfaces, anything non-numeric is a unix socket path.
func NormalizePort(val string) (Listener, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return Listener{}, errors.New("config: port is empty")
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return Listener{Network: "unix", Address: val}, nil
	}
	if n < 0 {
		return Listener{}, fmt.Errorf("config: invalid port %d", n)
	}
	return Listener{Network: "tcp", Address: ":" + strconv.Itoa(n)}, nil
}
