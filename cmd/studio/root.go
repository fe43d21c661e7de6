package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/internal/config"
	"github.com/bots-against-war/moduli/internal/logging"
	"github.com/bots-against-war/moduli/pkg/adapters/file"
	"github.com/bots-against-war/moduli/pkg/adapters/redis"
	"github.com/bots-against-war/moduli/pkg/client"
	"github.com/bots-against-war/moduli/pkg/i18n"
	"github.com/bots-against-war/moduli/pkg/ports"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Studio is a command line companion of the bot constructor",
	Long: `Studio validates, previews and scaffolds bot user flows, talks to the constructor
backend and serves the editor-support API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("api", "", "Backend API root (overrides STUDIO_API_URL)")
	rootCmd.PersistentFlags().String("locale", "", "UI locale: en or ru (overrides the saved preference)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load")
}

// app is the per-invocation wiring shared by commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  ports.LocaleStore
	locale i18n.Locale
	t      i18n.Translator
}

// setup loads the configuration, applies flag overrides and resolves the UI locale.
func setup(cmd *cobra.Command) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("api"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if v, _ := cmd.Flags().GetString("locale"); v != "" {
		cfg.Locale = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}),
	}
	if a.store, err = newLocaleStore(cfg); err != nil {
		return nil, err
	}
	a.locale = a.resolveLocale(cmd.Context())
	a.t = i18n.Default().Translator(a.locale)
	return a, nil
}

func newLocaleStore(cfg *config.Config) (ports.LocaleStore, error) {
	if cfg.RedisAddr != "" {
		return redis.New(cfg.RedisAddr, redis.WithPrefix(cfg.RedisPrefix)), nil
	}
	path := cfg.PrefsFile
	if path == "" {
		var err error
		if path, err = file.DefaultPrefsPath(); err != nil {
			return nil, err
		}
	}
	return file.NewLocaleStore(path), nil
}

// resolveLocale prefers an explicit setting, then the stored preference, then the environment.
func (a *app) resolveLocale(ctx context.Context) i18n.Locale {
	if loc, ok := i18n.ParseLocale(a.cfg.Locale); ok {
		return loc
	}
	if a.cfg.Locale != "" {
		a.logger.Warn("Unsupported locale, ignoring", "locale", a.cfg.Locale)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	stored, ok, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Warn("Locale preference unavailable", "error", err)
		ok = false
	}
	return i18n.ResolveLocale(stored, ok, i18n.EnvLanguage())
}

func (a *app) client() *client.Client {
	opts := []client.Option{
		client.WithLogger(a.logger),
		client.WithTimeout(a.cfg.Timeout),
	}
	if a.cfg.CoalesceRequests {
		opts = append(opts, client.WithRequestCoalescing())
	}
	if a.cfg.AuthHeader != "" {
		opts = append(opts, client.WithHeader(a.cfg.AuthHeader, a.cfg.AuthValue))
	}
	return client.New(a.cfg.APIURL, opts...)
}

// mustSetup is setup for Run functions: it prints the error and exits.
func mustSetup(cmd *cobra.Command) *app {
	a, err := setup(cmd)
	if err != nil {
		fmt.Printf("Error initializing studio: %v\n", err)
		os.Exit(1)
	}
	return a
}
