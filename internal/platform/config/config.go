package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Action token config (email verification, password reset)
	ActionTokenSecret string
	EmailVerifyTTL    time.Duration
	PasswordResetTTL  time.Duration

	// Ledger config
	DefaultCurrencyCode string
	MaxTxnAmount        decimal.Decimal
	LedgerMaxRetries    int

	// Rate limiting, in ulule/limiter formatted-rate notation (e.g. "30-M")
	AuthRateLimit   string
	LedgerRateLimit string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "savings-app")
	viper.SetDefault("ACTION_TOKEN_SECRET", "")
	viper.SetDefault("EMAIL_VERIFY_TTL", "72h")
	viper.SetDefault("PASSWORD_RESET_TTL", "30m")
	viper.SetDefault("DEFAULT_CURRENCY_CODE", "USD")
	viper.SetDefault("MAX_TXN_AMOUNT", "1000000")
	viper.SetDefault("LEDGER_MAX_RETRIES", 3)
	viper.SetDefault("AUTH_RATE_LIMIT", "30-M")
	viper.SetDefault("LEDGER_RATE_LIMIT", "120-M")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ActionTokenSecret = viper.GetString("ACTION_TOKEN_SECRET")
	if cfg.ActionTokenSecret == "" {
		// Fall back to the JWT secret so dev setups need only one secret.
		cfg.ActionTokenSecret = cfg.JWTSecret
		log.Println("Warning: ACTION_TOKEN_SECRET not set. Falling back to JWT_SECRET.")
	}

	cfg.EmailVerifyTTL = parseDurationOrDefault("EMAIL_VERIFY_TTL", 72*time.Hour)
	cfg.PasswordResetTTL = parseDurationOrDefault("PASSWORD_RESET_TTL", 30*time.Minute)

	cfg.DefaultCurrencyCode = viper.GetString("DEFAULT_CURRENCY_CODE")

	maxTxnStr := viper.GetString("MAX_TXN_AMOUNT")
	maxTxnAmount, err := decimal.NewFromString(maxTxnStr)
	if err != nil || maxTxnAmount.LessThanOrEqual(decimal.Zero) {
		maxTxnAmount = decimal.NewFromInt(1000000)
		log.Printf("Warning: Invalid value for MAX_TXN_AMOUNT ('%s'). Defaulting to %s.\n", maxTxnStr, maxTxnAmount.String())
	}
	cfg.MaxTxnAmount = maxTxnAmount

	cfg.LedgerMaxRetries = viper.GetInt("LEDGER_MAX_RETRIES")
	if cfg.LedgerMaxRetries < 1 {
		cfg.LedgerMaxRetries = 3
	}

	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")
	cfg.LedgerRateLimit = viper.GetString("LEDGER_RATE_LIMIT")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	return cfg, nil
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}
