package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stapply-ai/agent/internal/server"
	"github.com/stapply-ai/agent/internal/utils"
	"github.com/stapply-ai/agent/internal/version"
)

const configFileName = "config"

var rootCmd = &cobra.Command{
	Use:     "agent-server",
	Short:   "Stapply Agent API server",
	Version: version.Detailed(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// all good now, show header
		cmd.SilenceUsage = true
		showHeader()
		logBootDiagnostics()

		srv, err := server.New(cfg)
		if err != nil {
			return err
		}

		defer slog.Info("Bye!")
		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("host", "H", "", "Host to bind the API server")
	rootCmd.Flags().IntP("port", "p", 0, "Port to bind the API server")
	rootCmd.Flags().StringP("datadir", "d", "", "Directory for the database, uploads and locks")
	rootCmd.Flags().IntP("workers", "w", 0, "Number of session workers")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a config file")
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	logFile, err := setupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*server.Config, error) {
	// config path
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return nil, fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	setConfigDefaults()

	// Bind flags to viper
	viper.BindPFlag("http.host", cmd.Flags().Lookup("host"))
	viper.BindPFlag("http.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("data_dir", cmd.Flags().Lookup("datadir"))
	viper.BindPFlag("agent.workers", cmd.Flags().Lookup("workers"))

	// Set up environment variables
	viper.SetEnvPrefix("STAPPLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// bare aliases for the usual container knobs
	viper.BindEnv("http.port", "STAPPLY_HTTP_PORT", "PORT")
	viper.BindEnv("http.environment", "STAPPLY_HTTP_ENVIRONMENT", "ENVIRONMENT")
	viper.BindEnv("agent.workers", "STAPPLY_AGENT_WORKERS", "WORKERS")
	viper.BindEnv("browser.api_key", "STAPPLY_BROWSER_API_KEY", "KERNEL_API_KEY")
	viper.BindEnv("webhook.secret", "STAPPLY_WEBHOOK_SECRET", "WEBHOOK_SECRET")
	viper.BindEnv("email.sendgrid_api_key", "STAPPLY_EMAIL_SENDGRID_API_KEY", "SENDGRID_API_KEY")

	var cfg server.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setConfigDefaults() {
	viper.SetDefault("http.host", "0.0.0.0")
	viper.SetDefault("http.port", 8000)
	viper.SetDefault("http.environment", server.EnvDevelopment)
	viper.SetDefault("http.allowed_origins", []string{})
	viper.SetDefault("http.rate_limit", "60-M")
	viper.SetDefault("http.request_timeout", "60s")
	viper.SetDefault("http.cert_file", "")
	viper.SetDefault("http.key_file", "")
	viper.SetDefault("data_dir", "data")

	viper.SetDefault("agent.workers", 4)
	viper.SetDefault("agent.queue_size", 64)
	viper.SetDefault("agent.run_timeout", "30m")

	viper.SetDefault("browser.api_url", "https://api.onkernel.com")
	viper.SetDefault("browser.timeout", "30s")
	viper.SetDefault("browser.stealth", true)

	viper.SetDefault("webhook.tolerance", "5m")
	viper.SetDefault("webhook.timeout", "10s")

	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.from_email", "noreply@stapply.ai")
	viper.SetDefault("email.from_name", "Stapply")
}

// setupLogging wires a tinted stdout handler, plus a plain text file handler
// when STAPPLY_LOG_FILE is set. The caller closes the returned file.
func setupLogging() (*os.File, error) {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("STAPPLY_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})

	handler := slog.Handler(stdoutHandler)
	var file *os.File

	if logFilePath := os.Getenv("STAPPLY_LOG_FILE"); logFilePath != "" {
		if err := utils.EnsureDir(filepath.Dir(logFilePath)); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		fileHandler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
		handler = utils.NewMultiLogHandler(stdoutHandler, fileHandler)
	}

	slog.SetDefault(slog.New(handler))
	return file, nil
}
