package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	shellconfig "github.com/oratioviva/desktop/internal/config"
	"github.com/oratioviva/desktop/internal/sidecar"
)

type rootOptions struct {
	configPath string
	logJSON    bool
}

func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "oratio",
		Short: "Launcher and diagnostics for the OratioViva backend",
	}
	defaultConfig := os.Getenv("ORATIO_CONFIG")
	if defaultConfig == "" {
		defaultConfig = shellconfig.DefaultConfigPath()
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "path to shell config file (default $HOME/.oratioviva/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newDoctorCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

type launchFlags struct {
	resourceDir string
	dataDir     string
}

func (f *launchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.resourceDir, "resources", "", "bundled resources directory containing backend/server.py")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "per-user data directory handed to the backend")
}

func (f *launchFlags) shellInfo(cfg *shellconfig.Config) sidecar.ShellInfo {
	resources := f.resourceDir
	if resources == "" {
		resources = cfg.ResourcesDir()
	}
	return sidecar.ShellInfo{ResourceDir: resources, AppDataDir: f.dataDir}
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &launchFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the backend and supervise it until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := shellconfig.Load(root.configPath)
			if err != nil {
				return err
			}
			logger := newLogger(root.logJSON || cfg.LogJSON(), cfg.LogLevel())

			sup := sidecar.New(logger)
			launch, err := sup.Start(opts.shellInfo(cfg))
			if err != nil {
				logger.Error("backend start", "err", err)
				os.Exit(1)
			}
			defer sup.Stop()
			logger.Info("supervising backend", "url", launch.URL())

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// newLogger builds the process logger. JSON is forced when stderr is not a
// terminal so piped logs stay machine readable.
func newLogger(json bool, level slog.Level) *slog.Logger {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		json = true
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	if json {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}
	return slog.New(handler)
}
