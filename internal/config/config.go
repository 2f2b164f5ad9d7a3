package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	AI        AIConfig
	Ebay      EbayConfig
	MongoDB   MongoDBConfig
	Cache     CacheConfig
	Agent     AgentConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	Mode string
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// The whole block is optional; notifications are disabled when the token is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	OwnerNumber   string
}

// Enabled reports whether WhatsApp credentials were supplied.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the Sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule    string
	GoalRefreshCron string
	Timezone        string
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
	Model        string
}

// EbayConfig holds marketplace lookup credentials.
type EbayConfig struct {
	AppID       string
	Environment string
}

// MongoDBConfig holds settings for MongoDB. An empty URI selects the in-memory store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// CacheConfig holds Redis settings for the research cache.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ResearchTTL   time.Duration
}

// AgentConfig seeds the session agent configuration.
type AgentConfig struct {
	Name          string
	DailyBudget   float64
	PerItemBudget float64
	TotalBudget   float64
	Strategy      string
	TargetMargin  float64
	RiskTolerance string
}

// Session converts the seed values into the agent's session configuration.
func (a AgentConfig) Session() models.AgentConfig {
	return models.AgentConfig{
		ID:      "session",
		Name:    a.Name,
		Enabled: true,
		Budget: models.Budget{
			Daily:   a.DailyBudget,
			PerItem: a.PerItemBudget,
			Total:   a.TotalBudget,
		},
		Strategy:      models.Strategy(a.Strategy),
		TargetMargin:  a.TargetMargin,
		RiskTolerance: models.RiskLevel(a.RiskTolerance),
	}
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
			Mode: getenvWithDefault("GIN_MODE", "release"),
		},
		Log: LogConfig{
			Level:  getenvWithDefault("LOG_LEVEL", "info"),
			Format: getenvWithDefault("LOG_FORMAT", "json"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			OwnerNumber:   os.Getenv("WHATSAPP_OWNER_NUMBER"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule:    getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 0"),
			GoalRefreshCron: getenvWithDefault("GOAL_REFRESH_CRON", "0 * * * *"),
			Timezone:        getenvWithDefault("TIMEZONE", "America/New_York"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:        getenvWithDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		},
		Ebay: EbayConfig{
			AppID:       os.Getenv("EBAY_APP_ID"),
			Environment: getenvWithDefault("EBAY_ENVIRONMENT", "sandbox"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "resaledesk"),
		},
		Cache: CacheConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
		},
		Agent: AgentConfig{
			Name:          getenvWithDefault("AGENT_NAME", "default"),
			Strategy:      getenvWithDefault("AGENT_STRATEGY", "balanced"),
			RiskTolerance: getenvWithDefault("AGENT_RISK_TOLERANCE", "medium"),
		},
	}

	var err error
	if cfg.Cache.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Cache.ResearchTTL, err = getenvDuration("RESEARCH_CACHE_TTL", 6*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Agent.DailyBudget, err = getenvFloat("AGENT_DAILY_BUDGET", 100); err != nil {
		return nil, err
	}
	if cfg.Agent.PerItemBudget, err = getenvFloat("AGENT_PER_ITEM_BUDGET", 50); err != nil {
		return nil, err
	}
	if cfg.Agent.TotalBudget, err = getenvFloat("AGENT_TOTAL_BUDGET", 1000); err != nil {
		return nil, err
	}
	if cfg.Agent.TargetMargin, err = getenvFloat("AGENT_TARGET_MARGIN", 40); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.VerifyToken == "":
			return errors.New("META_VERIFY_TOKEN must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		case c.WhatsApp.OwnerNumber == "":
			return errors.New("WHATSAPP_OWNER_NUMBER must be provided")
		}
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.GoalRefreshCron == "" {
		return errors.New("GOAL_REFRESH_CRON must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	switch c.Ebay.Environment {
	case "sandbox", "production":
	default:
		return fmt.Errorf("EBAY_ENVIRONMENT must be sandbox or production, got %q", c.Ebay.Environment)
	}

	if c.Agent.PerItemBudget < 0 || c.Agent.DailyBudget < 0 || c.Agent.TotalBudget < 0 {
		return errors.New("AGENT_*_BUDGET values must not be negative")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return v, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return v, nil
}
