package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL settings for the transaction journal.
// An empty Host disables the database and the journal is kept in memory.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectAttempts    int
}

// Enabled reports whether a database host has been configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LedgerConfig describes the ledger node, faucet and the document registry module.
type LedgerConfig struct {
	NodeURL        string
	FaucetURL      string
	ModuleAddress  string
	ModuleName     string
	Network        string
	ExplorerHost   string
	BootstrapFund  uint64
	FaucetWait     time.Duration
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	RequestsPerSec float64
}

// PinataConfig holds the pinning service credentials and retrieval gateway.
type PinataConfig struct {
	APIURL  string
	JWT     string
	Gateway string
}

// WalletConfig describes one wallet adapter reachable over its signer endpoint.
type WalletConfig struct {
	Name       string
	SignerURL  string
	InstallURL string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level    string
	Timezone string
}

// TracingConfig mirrors the standard OTEL_* variables the tracer provider honours.
type TracingConfig struct {
	Disabled    bool
	ServiceName string
	Protocol    string
	Endpoint    string
	Sampler     string
	SamplerArg  string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost      string
	Port         string
	ContentStore string
	Database     DatabaseConfig
	MinIO        MinIOConfig
	Ledger       LedgerConfig
	Pinata       PinataConfig
	Wallets      []WalletConfig
	Log          LogConfig
	Tracing      TracingConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:      getEnv("APP_HOST", "localhost:8080"),
		Port:         getEnv("PORT", "8080"),
		ContentStore: strings.ToLower(getEnv("CONTENT_STORE", "pinata")),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectAttempts:    getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Ledger: LedgerConfig{
			NodeURL:        getEnv("LEDGER_NODE_URL", "https://fullnode.testnet.aptoslabs.com/v1"),
			FaucetURL:      getEnv("LEDGER_FAUCET_URL", "https://faucet.testnet.aptoslabs.com"),
			ModuleAddress:  getEnv("LEDGER_MODULE_ADDRESS", ""),
			ModuleName:     getEnv("LEDGER_MODULE_NAME", ""),
			Network:        getEnv("LEDGER_NETWORK", "testnet"),
			ExplorerHost:   getEnv("LEDGER_EXPLORER_HOST", "explorer.aptoslabs.com"),
			BootstrapFund:  getEnvUint64("LEDGER_BOOTSTRAP_FUND", 100000000),
			FaucetWait:     getEnvDuration("LEDGER_FAUCET_WAIT", time.Second),
			ConfirmTimeout: getEnvDuration("LEDGER_CONFIRM_TIMEOUT", 30*time.Second),
			PollInterval:   getEnvDuration("LEDGER_POLL_INTERVAL", 500*time.Millisecond),
			RequestsPerSec: getEnvFloat("LEDGER_REQUESTS_PER_SEC", 10),
		},
		Pinata: PinataConfig{
			APIURL:  getEnv("PINATA_API_URL", "https://api.pinata.cloud"),
			JWT:     getEnv("PINATA_JWT", ""),
			Gateway: getEnv("PINATA_GATEWAY", ""),
		},
		Wallets: parseWallets(getEnv("WALLETS", "")),
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("LOG_TZ", "UTC"),
		},
		Tracing: TracingConfig{
			Disabled:    getEnvBool("OTEL_SDK_DISABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "docsign"),
			Protocol:    getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
			Sampler:     getEnv("OTEL_TRACES_SAMPLER", "parentbased_traceidratio"),
			SamplerArg:  getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0"),
		},
	}
}

// parseWallets reads a comma separated list of name=signerURL|installURL entries.
func parseWallets(raw string) []WalletConfig {
	var out []WalletConfig
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, rest, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		signer, install, _ := strings.Cut(rest, "|")
		out = append(out, WalletConfig{
			Name:       strings.TrimSpace(name),
			SignerURL:  strings.TrimSpace(signer),
			InstallURL: strings.TrimSpace(install),
		})
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvUint64(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
