package config

import (
	"fmt"
	"os"
	"strings"

	"batch-ledger/internal/domain"
	"batch-ledger/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SETTLER_LOG_LEVEL.
const EnvPrefix = "SETTLER"

// Config holds the settlement run configuration.
type Config struct {
	MasterOutputPath  string `validate:"required"`
	CurrentOutputPath string `validate:"required,nefield=MasterOutputPath"`
	CurrentActiveOnly bool
	NameFill          string `validate:"printascii,len=1"`

	EndOfSession   string `validate:"oneof=skip stop"`
	TransferPolicy string `validate:"oneof=atomic independent"`
	FeePolicy      string `validate:"oneof=skip zero"`

	EnforceLimits   bool
	WithdrawalLimit string `validate:"numeric,excludesall=-"`
	TransferLimit   string `validate:"numeric,excludesall=-"`
	PayBillLimit    string `validate:"numeric,excludesall=-"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// LoadConfig loads configuration from defaults, an optional config file named by
// SETTLER_CONFIG, a .env file if present, and environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.master_path", "new_master_accounts.txt")
	v.SetDefault("output.current_path", "new_current_accounts.txt")
	v.SetDefault("output.current_active_only", false)
	v.SetDefault("output.name_fill", " ")
	v.SetDefault("stream.end_of_session", "skip")
	v.SetDefault("transfer.policy", "atomic")
	v.SetDefault("fees.on_insufficient", "skip")
	v.SetDefault("limits.enforce", false)
	v.SetDefault("limits.withdrawal", "500.00")
	v.SetDefault("limits.transfer", "1000.00")
	v.SetDefault("limits.paybill", "2000.00")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		MasterOutputPath:  v.GetString("output.master_path"),
		CurrentOutputPath: v.GetString("output.current_path"),
		CurrentActiveOnly: v.GetBool("output.current_active_only"),
		NameFill:          v.GetString("output.name_fill"),
		EndOfSession:      strings.ToLower(v.GetString("stream.end_of_session")),
		TransferPolicy:    strings.ToLower(v.GetString("transfer.policy")),
		FeePolicy:         strings.ToLower(v.GetString("fees.on_insufficient")),
		EnforceLimits:     v.GetBool("limits.enforce"),
		WithdrawalLimit:   v.GetString("limits.withdrawal"),
		TransferLimit:     v.GetString("limits.transfer"),
		PayBillLimit:      v.GetString("limits.paybill"),
		LogLevel:          strings.ToLower(v.GetString("log.level")),
		LogFormat:         strings.ToLower(v.GetString("log.format")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Fill returns the name padding character.
func (c *Config) Fill() byte {
	return c.NameFill[0]
}

// Limits returns the per-session caps.
func (c *Config) Limits() (session.Limits, error) {
	withdrawal, err := decimal.NewFromString(c.WithdrawalLimit)
	if err != nil {
		return session.Limits{}, fmt.Errorf("limits.withdrawal: %w", err)
	}
	transfer, err := decimal.NewFromString(c.TransferLimit)
	if err != nil {
		return session.Limits{}, fmt.Errorf("limits.transfer: %w", err)
	}
	payBill, err := decimal.NewFromString(c.PayBillLimit)
	if err != nil {
		return session.Limits{}, fmt.Errorf("limits.paybill: %w", err)
	}
	return session.Limits{
		Withdrawal: withdrawal,
		Transfer:   transfer,
		PayBill:    payBill,
		MaxBalance: domain.MaxBalance,
	}, nil
}
