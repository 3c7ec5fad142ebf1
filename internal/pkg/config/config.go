package config

import (
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Namespace prefixes every environment variable read by Load, e.g. EMP_PORT.
const Namespace = "EMP"

type Config struct {
	Port             string        `yaml:"port"`
	DBDriver         string        `yaml:"db_driver" conf:"help:postgres or sqlite"`
	DatabaseURL      string        `yaml:"database_url" conf:"noprint"`
	DBMaxOpenConns   int           `yaml:"db_max_open_conns"`
	Migrate          bool          `yaml:"migrate"`
	JWTKey           string        `yaml:"jwt_key" conf:"noprint"`
	JWTTTL           time.Duration `yaml:"jwt_ttl"`
	UploadDir        string        `yaml:"upload_dir"`
	CleanupUploads   bool          `yaml:"cleanup_uploads"`
	ProtectEmployees bool          `yaml:"protect_employees"`
	RedisAddr        string        `yaml:"redis_addr"`
	RedisPassword    string        `yaml:"redis_password" conf:"noprint"`
	LoginMaxAttempts int           `yaml:"login_max_attempts"`
	LoginWindow      time.Duration `yaml:"login_window"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	Debug            bool          `yaml:"debug"`
}

// Default returns the configuration used when neither the file nor the
// environment sets a value.
func Default() Config {
	return Config{
		Port:             ":8080",
		DBDriver:         "postgres",
		DBMaxOpenConns:   10,
		Migrate:          true,
		JWTTTL:           time.Hour,
		UploadDir:        "./uploads",
		ProtectEmployees: true,
		LoginMaxAttempts: 5,
		LoginWindow:      15 * time.Minute,
		AllowedOrigins:   []string{"http://localhost:3000"},
	}
}

// Load builds the configuration from defaults, then the yaml file at path
// (skipped when it does not exist), then EMP_* environment variables and
// command line flags.
func Load(path string, args []string) (*Config, error) {
	c := Default()

	if path != "" {
		yamlFile, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, errors.Wrap(err, "reading config file")
		default:
			if err = yaml.Unmarshal(yamlFile, &c); err != nil {
				return nil, errors.Wrap(err, "parsing config file")
			}
		}
	}

	if err := conf.Parse(args, Namespace, &c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Usage returns the flag and environment help text.
func Usage() (string, error) {
	c := Default()
	return conf.Usage(Namespace, &c)
}

func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "database_url")
	}
	if c.JWTKey == "" {
		missing = append(missing, "jwt_key")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unsupported db_driver %q", c.DBDriver)
	}

	if c.JWTTTL <= 0 {
		return errors.New("jwt_ttl must be positive")
	}

	return nil
}
