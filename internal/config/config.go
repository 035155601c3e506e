package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SourceZoho   = "zoho"
	SourceGoogle = "google"
	SourceXLSX   = "xlsx"
	SourceHTML   = "html"
)

// ErrMissing is wrapped by every missing-variable error.
var ErrMissing = errors.New("missing required configuration")

type Config struct {
	RowSource string
	Worksheet string

	ZohoClientID     string
	ZohoClientSecret string
	ZohoRefreshToken string
	ZohoDocumentID   string
	ZohoAccountsURL  string
	ZohoSheetAPIURL  string
	ZohoRedirectURI  string
	ZohoTimeoutMs    int

	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRefreshToken  string
	GoogleSpreadsheetID string

	XLSXPath     string
	HTMLTableURL string

	HTTPAddr           string
	CORSAllowedOrigins []string
	ExposeErrorStack   bool

	DBPath        string
	RunLogEnabled bool

	LogLevel  string
	LogFormat string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RowSource: strings.ToLower(strings.TrimSpace(getEnv("ROW_SOURCE", SourceZoho))),
		Worksheet: getEnv("STOCK_WORKSHEET", "Allocation Sheet"),

		ZohoClientID:     getEnv("ZOHO_CLIENT_ID", ""),
		ZohoClientSecret: getEnv("ZOHO_CLIENT_SECRET", ""),
		ZohoRefreshToken: getEnv("ZOHO_REFRESH_TOKEN", ""),
		ZohoDocumentID:   getEnv("ZOHO_DOCUMENT_ID", ""),
		ZohoAccountsURL:  getEnv("ZOHO_ACCOUNTS_URL", "https://accounts.zoho.com"),
		ZohoSheetAPIURL:  getEnv("ZOHO_SHEET_API_URL", "https://sheet.zoho.com"),
		ZohoRedirectURI:  getEnv("ZOHO_REDIRECT_URI", ""),
		ZohoTimeoutMs:    getEnvInt("ZOHO_TIMEOUT_MS", 30000),

		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken:  getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		XLSXPath:     getEnv("XLSX_PATH", ""),
		HTMLTableURL: getEnv("HTML_TABLE_URL", ""),

		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		ExposeErrorStack:   getEnvBool("EXPOSE_ERROR_STACK", false),

		DBPath:        getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RunLogEnabled: getEnvBool("RUN_LOG_ENABLED", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: missing required env var: %s", ErrMissing, name)
	}
	return nil
}

// SheetTarget names the env var holding the sheet identifier of the active
// row source, and its value.
func (c Config) SheetTarget() (string, string) {
	switch c.RowSource {
	case SourceGoogle:
		return "GOOGLE_SPREADSHEET_ID", c.GoogleSpreadsheetID
	case SourceXLSX:
		return "XLSX_PATH", c.XLSXPath
	case SourceHTML:
		return "HTML_TABLE_URL", c.HTMLTableURL
	default:
		return "ZOHO_DOCUMENT_ID", c.ZohoDocumentID
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
