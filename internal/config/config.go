package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names. The GitHub and Discord names match the
// variables the existing deployment already sets.
const (
	EnvOwner      = "GITHUB_OWNER"
	EnvRepo       = "GITHUB_REPO"
	EnvFilePath   = "GITHUB_FILE_PATH"
	EnvToken      = "GITHUB_TOKEN"
	EnvWebhookURL = "DISCORD_WEBHOOK_URL"

	EnvAddr      = "LINKVAULT_ADDR"
	EnvTimeout   = "LINKVAULT_TIMEOUT"
	EnvBranches  = "LINKVAULT_BRANCHES"
	EnvAPIBase   = "LINKVAULT_API_BASE"
	EnvRawBase   = "LINKVAULT_RAW_BASE"
	EnvMirrorDir = "LINKVAULT_MIRROR_DIR"
	EnvLogLevel  = "LINKVAULT_LOG_LEVEL"
	EnvLogJSON   = "LINKVAULT_LOG_JSON"
)

type Config struct {
	Owner      string        `yaml:"owner"`
	Repo       string        `yaml:"repo"`
	FilePath   string        `yaml:"file_path"`
	Token      string        `yaml:"token"`
	WebhookURL string        `yaml:"webhook_url"`
	Branches   []string      `yaml:"branches"`
	APIBaseURL string        `yaml:"api_base_url"`
	RawBaseURL string        `yaml:"raw_base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	Addr       string        `yaml:"addr"`
	MirrorDir  string        `yaml:"mirror_dir"`
	LogLevel   string        `yaml:"log_level"`
	LogJSON    bool          `yaml:"log_json"`

	// explicit records which of the GitHub settings were provided by the
	// environment or a config file rather than the built-in defaults.
	explicit map[string]bool
}

func Default() *Config {
	return &Config{
		Owner:      "ROBA12551",
		Repo:       "twitter-trends-app",
		FilePath:   "gofile-urls.json",
		Branches:   []string{"main", "master"},
		APIBaseURL: "https://api.github.com",
		RawBaseURL: "https://raw.githubusercontent.com",
		Timeout:    10 * time.Second,
		Addr:       ":8888",
		LogLevel:   "info",
		explicit:   map[string]bool{},
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// (when path is non-empty or the default file exists), then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		cfg.merge(file)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(f *Config) {
	if c.explicit == nil {
		c.explicit = map[string]bool{}
	}
	set := func(dst *string, v, key string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		*dst = strings.TrimSpace(v)
		if key != "" {
			c.explicit[key] = true
		}
	}
	set(&c.Owner, f.Owner, EnvOwner)
	set(&c.Repo, f.Repo, EnvRepo)
	set(&c.FilePath, f.FilePath, EnvFilePath)
	set(&c.Token, f.Token, EnvToken)
	set(&c.WebhookURL, f.WebhookURL, EnvWebhookURL)
	set(&c.APIBaseURL, f.APIBaseURL, "")
	set(&c.RawBaseURL, f.RawBaseURL, "")
	set(&c.Addr, f.Addr, "")
	set(&c.MirrorDir, f.MirrorDir, "")
	set(&c.LogLevel, f.LogLevel, "")
	if len(f.Branches) > 0 {
		c.Branches = append([]string(nil), f.Branches...)
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.LogJSON {
		c.LogJSON = true
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	c.merge(&Config{
		Owner:      get(EnvOwner),
		Repo:       get(EnvRepo),
		FilePath:   get(EnvFilePath),
		Token:      get(EnvToken),
		WebhookURL: get(EnvWebhookURL),
		APIBaseURL: get(EnvAPIBase),
		RawBaseURL: get(EnvRawBase),
		Addr:       get(EnvAddr),
		MirrorDir:  get(EnvMirrorDir),
		LogLevel:   get(EnvLogLevel),
		Branches:   splitList(get(EnvBranches)),
	})

	if v := get(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := get(EnvLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogJSON, err)
		}
		c.LogJSON = b
	}
	return nil
}

// Validate checks values that would break every operation.
// Missing write credentials are not an error here: reads work without them.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if len(c.Branches) == 0 {
		return ErrNoBranches
	}
	if c.Owner == "" || c.Repo == "" || c.FilePath == "" {
		return ErrIncompleteRepository
	}
	return nil
}

// MissingForWrite lists the variables a write needs that were not provided.
// Defaults do not count: a write must target an explicitly configured repository.
func (c *Config) MissingForWrite() []string {
	var missing []string
	for _, key := range WriteVariables {
		if key == EnvToken {
			if c.Token == "" {
				missing = append(missing, key)
			}
			continue
		}
		if !c.explicit[key] {
			missing = append(missing, key)
		}
	}
	return missing
}

// WriteVariables are the variables required by write operations, in report order.
var WriteVariables = []string{EnvToken, EnvOwner, EnvRepo, EnvFilePath}

// Set assigns a repository or credential setting by its environment name,
// as if it had been provided explicitly.
func (c *Config) Set(key, value string) error {
	var f Config
	switch key {
	case EnvOwner:
		f.Owner = value
	case EnvRepo:
		f.Repo = value
	case EnvFilePath:
		f.FilePath = value
	case EnvToken:
		f.Token = value
	case EnvWebhookURL:
		f.WebhookURL = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	c.merge(&f)
	return nil
}

// HasToken reports whether a write credential is present.
func (c *Config) HasToken() bool { return c.Token != "" }

// MaskedToken is safe to print.
func (c *Config) MaskedToken() string {
	switch {
	case c.Token == "":
		return "(not set)"
	case len(c.Token) <= 8:
		return "****"
	default:
		return c.Token[:4] + "****"
	}
}

// EnvStatus reports "Set" / "NOT SET" for each write variable.
func (c *Config) EnvStatus() map[string]string {
	missing := make(map[string]bool)
	for _, k := range c.MissingForWrite() {
		missing[k] = true
	}
	status := make(map[string]string, len(WriteVariables))
	for _, k := range WriteVariables {
		if missing[k] {
			status[k] = "NOT SET"
		} else {
			status[k] = "Set"
		}
	}
	return status
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
