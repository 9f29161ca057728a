package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/app"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cloudflare-ddns-sync",
	Short: "Keep Cloudflare DNS records pointed at this host",
	Long:  "A daemon that periodically discovers the host's public address and updates Cloudflare A/AAAA records to match.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		return config.InitConfig(path)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Set up logger.
		logInstance := logger.SetupLogger(&cfg.Logging)

		// Create the application.
		appInstance, err := app.New(cfg, logInstance)
		if err != nil {
			return fmt.Errorf("failed to create app: %w", err)
		}
		if appInstance.SingleDomain() {
			runtime.GOMAXPROCS(1)
		}
		var application application = appInstance

		// Create a context with cancellation for graceful shutdown.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Listen for OS signals.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case sig := <-sigCh:
				logInstance.Info().Msgf("Received signal: %v", sig)
				cancel()
			case <-ctx.Done():
			}
		}()

		// Run the application. When context is canceled, Run returns.
		if err := application.Run(ctx); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "INFO", "set log level (e.g. INFO, DEBUG, WARN)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newVerifyCmd(), newRecordsCmd(), newConfigCmd())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
		os.Exit(1)
	}
}
