package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

type Config struct {
	// HTTP Server
	Port           string
	ShareBaseURL   string
	RateLimitRPS   float64
	RateLimitBurst int

	// Backend selection
	DataBackend string

	// Source table
	XLSXPath      string
	SheetName     string
	AccountColumn string
	TotalColumn   string
	DropColumns   []string

	// Sentinel literals loaded as "no value"; empty disables the rule
	SentinelValues []string

	// Aggregation
	NetRevenueLabel string
	Classification  string
	RevenueKeywords []string
	ExpenseKeywords []string

	// Presentation
	CurrencyLocale string
	CacheTTL       time.Duration

	// Google Sheets
	GoogleSpreadsheetID string

	// Database
	SQLiteDBPath      string
	SnapshotRetention int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	RefreshInterval time.Duration
	// RefreshSource is the upstream backend the worker snapshots from
	RefreshSource string

	// Memory backend seeds
	MemoryDataDir string

	// Optional YAML profile overriding the pipeline settings above
	ProfileFile string
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8081"),
		ShareBaseURL:   getEnv("SHARE_BASE_URL", ""),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		DataBackend: getEnv("DATA_BACKEND", "xlsx"),

		XLSXPath:      getEnv("XLSX_PATH", "./data/DADOS to AI Testing.xlsx"),
		SheetName:     getEnv("SHEET_NAME", "Dados para AI- Light"),
		AccountColumn: getEnv("ACCOUNT_COLUMN", "Conta Contábil"),
		TotalColumn:   getEnv("TOTAL_COLUMN", "total"),
		DropColumns:   getEnvList("DROP_COLUMNS", []string{"total"}),

		SentinelValues: getEnvList("SENTINEL_VALUES", []string{"1", "11"}),

		NetRevenueLabel: getEnv("NET_REVENUE_LABEL", "Receita Líquida"),
		Classification:  getEnv("CLASSIFICATION", "sign"),
		RevenueKeywords: getEnvList("REVENUE_KEYWORDS", []string{"Revenue", "Receita"}),
		ExpenseKeywords: getEnvList("EXPENSE_KEYWORDS", []string{"Expense", "Despesa"}),

		CurrencyLocale: getEnv("CURRENCY_LOCALE", "pt-BR"),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./data/findash.db"),
		SnapshotRetention: getEnvInt("SNAPSHOT_RETENTION", 30),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "findash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "refresh_tables"),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 15*time.Minute),
		RefreshSource:   getEnv("REFRESH_SOURCE", "xlsx"),

		MemoryDataDir: getEnv("MEMORY_DATA_DIR", "./data"),

		ProfileFile: getEnv("PROFILE_FILE", ""),
	}

	return cfg
}

// Sentinels parses SentinelValues.
func (c *Config) Sentinels() ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(c.SentinelValues))
	for _, s := range c.SentinelValues {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid sentinel value %q: %w", s, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"xlsx", "sheets", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "xlsx":
		if c.XLSXPath == "" {
			errors = append(errors, "XLSX path cannot be empty when using xlsx backend")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if strings.TrimSpace(c.SheetName) == "" {
		errors = append(errors, "sheet name cannot be empty")
	}
	if strings.TrimSpace(c.NetRevenueLabel) == "" {
		errors = append(errors, "net revenue label cannot be empty")
	}

	if _, err := c.Sentinels(); err != nil {
		errors = append(errors, err.Error())
	}

	switch c.Classification {
	case "sign":
	case "name":
		if len(c.RevenueKeywords) == 0 && len(c.ExpenseKeywords) == 0 {
			errors = append(errors, "name classification needs REVENUE_KEYWORDS or EXPENSE_KEYWORDS")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid classification '%s': must be one of [sign name]", c.Classification))
	}

	if _, err := language.Parse(c.CurrencyLocale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency locale '%s': %v", c.CurrencyLocale, err))
	}

	if c.ShareBaseURL != "" {
		if u, err := url.Parse(c.ShareBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid share base URL '%s': must be an absolute http(s) URL", c.ShareBaseURL))
		}
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be positive", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.RateLimitBurst))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate worker configuration
	if c.RefreshInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 second", c.RefreshInterval))
	} else if c.RefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
	}
	switch c.RefreshSource {
	case "xlsx", "sheets", "memory":
	default:
		errors = append(errors, fmt.Sprintf("invalid refresh source '%s': must be one of [xlsx sheets memory]", c.RefreshSource))
	}
	if c.SnapshotRetention < 1 {
		errors = append(errors, fmt.Sprintf("invalid snapshot retention %d: must be at least 1", c.SnapshotRetention))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable. A variable that is set but
// empty yields an empty list, so defaults can be switched off.
func getEnvList(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
