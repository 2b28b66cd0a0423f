package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tracknest/ingest/internal/config"
	"github.com/tracknest/ingest/internal/logger"
)

var version = "1.0.0"

// cli carries what every command needs once configuration is loaded.
type cli struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "tracknest",
		Short: "TrackNest transaction ingest service",
		Long: `tracknest turns bank SMS alerts, PDF account statements and short
typed phrases into categorized transactions.

Run "tracknest serve" for the HTTP API, or use the extraction commands
to try the parsers from the command line.`,
		PersistentPreRunE: c.initConfig,
		SilenceUsage:      true,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: $HOME/.config/tracknest/config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = c.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = c.v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(c.serveCmd())
	root.AddCommand(c.statementCmd())
	root.AddCommand(c.smsCmd())
	root.AddCommand(c.quickCmd())
	root.AddCommand(c.usersCmd())
	root.AddCommand(versionCmd())

	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadViper(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	log, err := logger.Configure(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	c.log = log
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tracknest v%s\n", version)
		},
	}
}
