package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/reconciler"
)

// Auth modes for the inventory credential.
const (
	AuthModeForm   = "form"
	AuthModeHeader = "header"
)

// Config holds the application configuration loaded from flags, the
// environment, .env files and an optional YAML config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Inventory API
	APIURL      string
	Token       string
	AuthMode    string
	HTTPTimeout time.Duration

	// Sync scope
	InventoryID     int
	TargetProductID string
	TargetField     string
	DisplayField    string
	ExtraFields     []string

	// Spreadsheet
	Spreadsheet       string
	Worksheet         string
	GoogleCredentials string
	GoogleToken       string

	// Logging configuration
	LogLevel      string
	LogFormat     string
	LogOutput     string
	LogTimeFormat string
	LogCaller     bool
	LogFields     string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or .sheetlink.yaml in $HOME or the working dir)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SHEETLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		// a missing default config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		APIURL:      v.GetString("api_url"),
		Token:       v.GetString("token"),
		AuthMode:    strings.ToLower(v.GetString("auth_mode")),
		HTTPTimeout: v.GetDuration("http_timeout"),

		InventoryID:     v.GetInt("inventory_id"),
		TargetProductID: v.GetString("target_product_id"),
		TargetField:     v.GetString("target_field"),
		DisplayField:    v.GetString("display_field"),
		ExtraFields:     splitList(v.GetStringSlice("extra_fields")),

		Spreadsheet:       v.GetString("spreadsheet"),
		Worksheet:         v.GetString("worksheet"),
		GoogleCredentials: v.GetString("google_credentials"),
		GoogleToken:       v.GetString("google_token"),

		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		LogOutput:     v.GetString("log_output"),
		LogTimeFormat: v.GetString("log_time_format"),
		LogCaller:     v.GetBool("log_caller"),
		LogFields:     v.GetString("log_fields"),
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("auth_mode", AuthModeForm)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("inventory_id", constants.DefaultInventoryID)
	v.SetDefault("target_product_id", constants.DefaultTargetProductID)
	v.SetDefault("target_field", constants.DefaultTargetField)
	v.SetDefault("display_field", constants.DefaultDisplayField)
	v.SetDefault("extra_fields", constants.DefaultExtraFields)
	v.SetDefault("worksheet", "0")
	v.SetDefault("google_credentials", constants.DefaultCredentialsFile)
	v.SetDefault("google_token", constants.DefaultTokenFile)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("log_time_format", "kitchen")
}

// bindEnv adds the unprefixed names operators already use.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("token", "SHEETLINK_TOKEN", "BASELINKER_TOKEN", "TOKEN")
	_ = v.BindEnv("spreadsheet", "SHEETLINK_SPREADSHEET", "SPREADSHEET_URL")
	_ = v.BindEnv("log_level", "SHEETLINK_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log_format", "SHEETLINK_LOG_FORMAT", "LOG_FORMAT")
	_ = v.BindEnv("log_output", "SHEETLINK_LOG_OUTPUT", "LOG_OUTPUT")
	_ = v.BindEnv("log_time_format", "SHEETLINK_LOG_TIME_FORMAT", "LOG_TIME_FORMAT")
	_ = v.BindEnv("log_caller", "SHEETLINK_LOG_CALLER", "LOG_CALLER")
	_ = v.BindEnv("log_fields", "SHEETLINK_LOG_FIELDS", "LOG_FIELDS")
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Reconciler returns the sync scope as a reconciler configuration.
func (c *Config) Reconciler() reconciler.Config {
	return reconciler.Config{
		InventoryID:     c.InventoryID,
		TargetProductID: c.TargetProductID,
		TargetField:     c.TargetField,
		DisplayField:    c.DisplayField,
		ExtraFields:     append([]string(nil), c.ExtraFields...),
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win; godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
