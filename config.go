package sqlfixture

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// DefaultEnvironment is the database environment used when none is requested.
const DefaultEnvironment = "development"

// Config represents the sqlfixture tool configuration (sqlfixture.yaml).
// It only describes where fixtures are generated; the tables and query come
// from the fixture definition passed on the command line.
type Config struct {
	Dialect   string              `yaml:"dialect"`
	Timeout   time.Duration       `yaml:"timeout"`
	Databases map[string]Database `yaml:"databases"`
}

// Database represents database connection configuration
type Database struct {
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}

	expandConfigEnvVars(config)

	return config, nil
}

// ParseConfig parses configuration bytes, applies defaults and validates the result.
// Environment variables are not expanded.
func ParseConfig(data []byte) (*Config, error) {
	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Environment returns the database settings of the named environment.
func (c *Config) Environment(name string) (Database, error) {
	if name == "" {
		name = DefaultEnvironment
	}

	db, ok := c.Databases[name]
	if !ok {
		return Database{}, fmt.Errorf("%w: %s", ErrUnknownEnvironment, name)
	}

	return db, nil
}

func validateConfig(config *Config) error {
	if _, err := ParseDialect(config.Dialect); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	if config.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative: %s", ErrConfigValidation, config.Timeout)
	}

	for name, db := range config.Databases {
		if db.Driver == "" {
			return fmt.Errorf("%w: databases.%s.driver is required", ErrConfigValidation, name)
		}

		if _, err := ParseDialect(db.Driver); err != nil {
			return fmt.Errorf("%w: databases.%s: %w", ErrConfigValidation, name, err)
		}
	}

	return nil
}

func getDefaultConfig() *Config {
	return &Config{
		Dialect: string(DialectMySQL),
		Databases: map[string]Database{
			DefaultEnvironment: {
				Driver:     "mysql",
				Connection: "${SQLFIXTURE_DSN}",
			},
		},
	}
}

func applyDefaults(config *Config) {
	if config.Dialect == "" {
		config.Dialect = string(DialectMySQL)
	}

	if config.Databases == nil {
		config.Databases = getDefaultConfig().Databases
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

func expandConfigEnvVars(config *Config) {
	for name, db := range config.Databases {
		db.Connection = expandEnvVars(db.Connection)
		db.Driver = expandEnvVars(db.Driver)
		config.Databases[name] = db
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
