package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracknest/ingest/internal/api"
	"github.com/tracknest/ingest/internal/extractor"
	"github.com/tracknest/ingest/internal/parser"
	"github.com/tracknest/ingest/internal/store"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = c.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	statements, err := c.statementParser("", c.pdfExtractor())
	if err != nil {
		return err
	}

	app := api.NewApp(&api.Handler{
		Store:      s,
		Statements: statements,
		SMS:        &parser.SMSParser{},
		Quick:      &parser.QuickParser{},
		Log:        c.log,
		MaxUpload:  c.cfg.Upload.MaxBytes,
		Timeout:    c.cfg.Statement.Timeout,
		Version:    version,
	})

	errCh := make(chan error, 1)
	go func() {
		c.log.Info().Str("addr", c.cfg.Server.Addr).Str("version", version).Msg("Starting HTTP server")
		errCh <- app.Listen(c.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		c.log.Info().Msg("Received interrupt signal, shutting down gracefully...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// openStore opens and migrates the configured database.
func (c *cli) openStore(ctx context.Context) (*store.Store, error) {
	path := c.cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := store.New(db, c.log)
	if err := s.SeedCategories(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	c.log.Debug().Str("database", path).Msg("Database ready")
	return s, nil
}

// statementParser builds a parser for the named layout, falling back to the
// configured one.
func (c *cli) statementParser(layoutName string, tables parser.TableExtractor) (*parser.StatementParser, error) {
	if layoutName == "" {
		layoutName = c.cfg.Statement.Layout
	}
	layout, err := parser.LayoutByName(layoutName)
	if err != nil {
		return nil, err
	}
	return parser.NewStatementParser(layout, tables, c.log), nil
}

func (c *cli) pdfExtractor() *extractor.PDF {
	return &extractor.PDF{MaxPages: c.cfg.Statement.MaxPages, Log: c.log}
}
