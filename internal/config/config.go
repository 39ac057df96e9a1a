package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CONVERTOR_PORT.
const EnvPrefix = "CONVERTOR"

type Config struct {
	Port string

	// Auth
	APIKey string

	// Batch directories
	InputDir     string
	OutputDir    string
	ProcessedDir string

	// Google Drive
	UploadEnabled   bool
	DriveFolderID   string
	FolderIDFile    string
	CredentialsFile string
	TokenFile       string

	// Conversion ledger
	HistoryDB string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
	PdftotextTimeout     time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"port":                   "8090",
	"api_key":                "",
	"input_dir":              "./input_files",
	"output_dir":             "./converted_docs",
	"processed_dir":          "./processed_files",
	"upload_enabled":         true,
	"drive_folder_id":        "",
	"folder_id_file":         "drive_folder_id.txt",
	"credentials_file":       "credentials.json",
	"token_file":             "token.json",
	"history_db":             "convertor.db",
	"worker_count":           2,
	"max_queue_size":         100,
	"max_upload_bytes":       int64(52428800), // 50MB
	"job_ttl":                time.Hour,
	"pdf_fallback_pdftotext": true,
	"pdftotext_timeout":      30 * time.Second,
	"log_level":              "info",
	"log_format":             "json",
}

// Load reads configuration from defaults, an optional YAML file and
// CONVERTOR_* environment variables, in increasing precedence. With an
// empty configFile, convertor.yaml is looked up in the working directory
// and in ~/.config/convertor; a missing file there is not an error.
func Load(configFile string) (Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("convertor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "convertor"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port: v.GetString("port"),

		APIKey: v.GetString("api_key"),

		InputDir:     v.GetString("input_dir"),
		OutputDir:    v.GetString("output_dir"),
		ProcessedDir: v.GetString("processed_dir"),

		UploadEnabled:   v.GetBool("upload_enabled"),
		DriveFolderID:   strings.TrimSpace(v.GetString("drive_folder_id")),
		FolderIDFile:    v.GetString("folder_id_file"),
		CredentialsFile: v.GetString("credentials_file"),
		TokenFile:       v.GetString("token_file"),

		HistoryDB: v.GetString("history_db"),

		WorkerCount:  v.GetInt("worker_count"),
		MaxQueueSize: v.GetInt("max_queue_size"),

		MaxUploadBytes: v.GetInt64("max_upload_bytes"),

		JobTTL: v.GetDuration("job_ttl"),

		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),
		PdftotextTimeout:     v.GetDuration("pdftotext_timeout"),

		LogLevel:  strings.ToLower(v.GetString("log_level")),
		LogFormat: strings.ToLower(v.GetString("log_format")),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.PdftotextTimeout <= 0 {
		cfg.PdftotextTimeout = 30 * time.Second
	}

	return cfg, nil
}

// ValidateServer checks the settings the HTTP API needs.
func (c Config) ValidateServer() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required", EnvPrefix)
	}
	return c.ValidateUpload()
}

// ValidateUpload checks the Drive settings when uploading is enabled. The
// parent folder id may come from drive_folder_id or the folder id file.
func (c Config) ValidateUpload() error {
	if !c.UploadEnabled {
		return nil
	}
	if c.CredentialsFile == "" {
		return fmt.Errorf("%s_CREDENTIALS_FILE is required when uploading", EnvPrefix)
	}
	if c.DriveFolderID == "" && c.FolderIDFile == "" {
		return fmt.Errorf("%s_DRIVE_FOLDER_ID or %s_FOLDER_ID_FILE is required when uploading", EnvPrefix, EnvPrefix)
	}
	return nil
}

// Logger builds the process logger from LogLevel and LogFormat.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
