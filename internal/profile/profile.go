package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where fitta stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the public url of the fitta instance
	InstanceURL string

	// Assistant configuration
	AssistantEnabled bool   // FITTA_ASSISTANT_ENABLED
	AssistantAPIKey  string // FITTA_ASSISTANT_API_KEY
	AssistantBaseURL string // FITTA_ASSISTANT_BASE_URL (default: https://api.openai.com/v1)
	AssistantModel   string // FITTA_ASSISTANT_MODEL (default: gpt-4o-mini)

	// Payment configuration
	PaymentSecretKey string // FITTA_PAYMENT_SECRET_KEY
	PaymentBaseURL   string // FITTA_PAYMENT_BASE_URL (default: https://api.paystack.co)
	PaymentCurrency  string // FITTA_PAYMENT_CURRENCY (default: GHS)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAssistantRemoteEnabled reports whether remote reply generation is
// configured. Without a credential the assistant runs canned-only; the
// flow must never fail on an absent key.
func (p *Profile) IsAssistantRemoteEnabled() bool {
	return p.AssistantEnabled && p.AssistantAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from FITTA_* environment variables.
func (p *Profile) FromEnv() {
	p.AssistantEnabled = os.Getenv("FITTA_ASSISTANT_ENABLED") == "true"
	p.AssistantAPIKey = os.Getenv("FITTA_ASSISTANT_API_KEY")
	p.AssistantBaseURL = getEnvOrDefault("FITTA_ASSISTANT_BASE_URL", "https://api.openai.com/v1")
	p.AssistantModel = getEnvOrDefault("FITTA_ASSISTANT_MODEL", "gpt-4o-mini")

	p.PaymentSecretKey = os.Getenv("FITTA_PAYMENT_SECRET_KEY")
	p.PaymentBaseURL = getEnvOrDefault("FITTA_PAYMENT_BASE_URL", "https://api.paystack.co")
	p.PaymentCurrency = getEnvOrDefault("FITTA_PAYMENT_CURRENCY", "GHS")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "fitta")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/fitta"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("fitta_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
