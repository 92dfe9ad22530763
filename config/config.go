package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/drone/envsubst"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/energycore/core/metrics"
	"github.com/kilianp07/energycore/infra/mqtt"
)

type Config struct {
	HTTP    HTTPConfig     `json:"http"`
	Storage StorageConfig  `json:"storage"`
	Auth    AuthConfig     `json:"auth"`
	Metrics metrics.Config `json:"metrics"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Logging LoggingConfig  `json:"logging"`
}

// Load reads the configuration file at path, applies K_ environment
// overrides and fills defaults. A .env file next to the configuration (or in
// the working directory when path is empty) is loaded first; variables
// already present in the environment win. An empty path yields a
// configuration built from defaults and the environment only.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(path); err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(expandedFile(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	c.Storage.SetDefaults()
	c.Logging.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

func loadDotEnv(path string) error {
	envPath := ".env"
	if path != "" {
		envPath = filepath.Join(filepath.Dir(path), ".env")
	}
	if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	return nil
}

// expandedProvider serves a config file with ${VAR} and ${VAR:-default}
// references replaced from the environment.
type expandedProvider struct{ path string }

func expandedFile(path string) expandedProvider { return expandedProvider{path: path} }

func (p expandedProvider) ReadBytes() ([]byte, error) {
	raw, err := file.Provider(p.path).ReadBytes()
	if err != nil {
		return nil, err
	}
	out, err := envsubst.EvalEnv(string(raw))
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", p.path, err)
	}
	return []byte(out), nil
}

func (p expandedProvider) Read() (map[string]any, error) {
	return nil, errors.New("expanded file provider does not support Read")
}
