package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/goliatone/go-invoicedesk/books"
)

// Config holds the desk configuration.
type Config struct {
	API           APIConfig          `envPrefix:"DESK_API_"`
	Organization  OrganizationConfig `envPrefix:"DESK_ORG_"`
	Export        ExportConfig       `envPrefix:"DESK_EXPORT_"`
	Chromium      ChromiumConfig     `envPrefix:"DESK_CHROME_"`
	Print         PrintConfig        `envPrefix:"DESK_PRINT_"`
	Server        ServerConfig       `envPrefix:"DESK_SERVER_"`
	Log           LogConfig          `envPrefix:"DESK_LOG_"`
	Notifications NotificationConfig `envPrefix:"DESK_NOTIFY_"`
}

// APIConfig points at the accounting backend.
type APIConfig struct {
	BaseURL    string        `env:"BASE_URL"`
	Timeout    time.Duration `env:"TIMEOUT"`
	MaxRetries uint64        `env:"MAX_RETRIES"`
}

// OrganizationConfig is the letterhead printed on drawn documents.
type OrganizationConfig struct {
	Name       string `env:"NAME"`
	Street1    string `env:"STREET1"`
	Street2    string `env:"STREET2"`
	City       string `env:"CITY"`
	State      string `env:"STATE"`
	PostalCode string `env:"POSTAL_CODE"`
	Email      string `env:"EMAIL"`
	GSTIN      string `env:"GSTIN"`
}

// Organization converts the letterhead settings.
func (o OrganizationConfig) Organization() books.Organization {
	return books.Organization{
		Name:       o.Name,
		Street1:    o.Street1,
		Street2:    o.Street2,
		City:       o.City,
		State:      o.State,
		PostalCode: o.PostalCode,
		Email:      o.Email,
		GSTIN:      o.GSTIN,
	}
}

// ExportConfig holds download settings.
type ExportConfig struct {
	DownloadsDir     string `env:"DOWNLOADS_DIR"`
	LinkBaseURL      string `env:"LINK_BASE_URL"`
	DrawnFilename    string `env:"DRAWN_FILENAME"`
	SnapshotFilename string `env:"SNAPSHOT_FILENAME"`
	ExpenseFilename  string `env:"EXPENSE_FILENAME"`
	Overwrite        bool   `env:"OVERWRITE"`
}

// ChromiumConfig holds headless browser settings.
type ChromiumConfig struct {
	Path        string        `env:"PATH"`
	Args        []string      `env:"ARGS" envSeparator:","`
	Timeout     time.Duration `env:"TIMEOUT"`
	Scale       float64       `env:"SCALE"`
	SettleDelay time.Duration `env:"SETTLE_DELAY"`
	AssetDelay  time.Duration `env:"ASSET_DELAY"`
}

// PrintConfig selects the print spooler.
type PrintConfig struct {
	Command     string   `env:"COMMAND"`
	Destination string   `env:"DESTINATION"`
	Args        []string `env:"ARGS" envSeparator:","`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Host string `env:"HOST"`
	Port string `env:"PORT"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `env:"LEVEL"`
	Format string `env:"FORMAT"`
}

// NotificationConfig enables document-ready notifications.
type NotificationConfig struct {
	Enabled    bool       `env:"ENABLED"`
	Recipients []string   `env:"RECIPIENTS" envSeparator:","`
	Channels   []string   `env:"CHANNELS" envSeparator:","`
	Locale     string     `env:"LOCALE"`
	SMTP       SMTPConfig `envPrefix:"SMTP_"`
}

// SMTPConfig configures the optional email channel.
type SMTPConfig struct {
	Host          string `env:"HOST"`
	Port          int    `env:"PORT"`
	From          string `env:"FROM"`
	Username      string `env:"USERNAME"`
	Password      string `env:"PASSWORD"`
	UseTLS        bool   `env:"USE_TLS"`
	UseStartTLS   bool   `env:"USE_STARTTLS"`
	SkipTLSVerify bool   `env:"SKIP_TLS_VERIFY"`
	AuthDisabled  bool   `env:"AUTH_DISABLED"`
	PlainOnly     bool   `env:"PLAIN_ONLY"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:    "http://localhost:3001",
			Timeout:    15 * time.Second,
			MaxRetries: 3,
		},
		Export: ExportConfig{
			DownloadsDir:     "./downloads",
			DrawnFilename:    books.DrawnInvoiceFilename,
			SnapshotFilename: books.SnapshotInvoiceFilename,
			ExpenseFilename:  books.ExpenseFilename,
		},
		Chromium: ChromiumConfig{
			Timeout:     60 * time.Second,
			Scale:       2,
			SettleDelay: 200 * time.Millisecond,
			AssetDelay:  500 * time.Millisecond,
		},
		Print: PrintConfig{
			Command: "lp",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8090",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Notifications: NotificationConfig{
			Channels: []string{"email"},
			Locale:   "en",
		},
	}
}

// Load applies environment overrides on top of Defaults.
func Load() (Config, error) {
	cfg := Defaults()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, books.NewError(books.KindValidation, "invalid configuration", err)
	}
	return cfg, nil
}
