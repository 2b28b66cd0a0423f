package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tracknest/ingest/internal/api"
	"github.com/tracknest/ingest/internal/extractor"
	"github.com/tracknest/ingest/internal/models"
	"github.com/tracknest/ingest/internal/parser"
	"github.com/tracknest/ingest/internal/writer"
)

func (c *cli) statementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statement <file.pdf>",
		Short: "Extract transactions from a PDF statement into CSV",
		Long: `Extract the transaction table of a Federal Bank PDF statement and write
the candidates to CSV.

Examples:
  # Detect the layout and write statement.csv
  tracknest statement statement.pdf

  # Encrypted statement with an explicit layout and output path
  tracknest statement --password=secret --layout=federal-compact --output=feb.csv statement.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: c.runStatement,
	}
	cmd.Flags().String("password", "", "password for encrypted statements")
	cmd.Flags().String("layout", "", "statement layout: auto, federal, federal-compact (default from config)")
	cmd.Flags().String("output", "", "output CSV file path (defaults to input filename with .csv extension)")
	cmd.Flags().Bool("header", true, "include metadata header rows in CSV")
	return cmd
}

func (c *cli) runStatement(cmd *cobra.Command, args []string) error {
	password, _ := cmd.Flags().GetString("password")
	layoutName, _ := cmd.Flags().GetString("layout")
	outputPath, _ := cmd.Flags().GetString("output")
	includeHeader, _ := cmd.Flags().GetBool("header")

	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	pdf := c.pdfExtractor()
	p, err := c.statementParser(layoutName, pdf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processing: %s\n", inputPath)

	ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Statement.Timeout)
	defer cancel()

	pages, err := pdf.ExtractFile(ctx, inputPath, password)
	switch {
	case errors.Is(err, extractor.ErrPassword):
		return fmt.Errorf("%s is encrypted: pass the correct --password", inputPath)
	case err != nil:
		return fmt.Errorf("PDF extraction failed: %w", err)
	}
	fmt.Fprintf(out, "  Extracted %d page(s)\n", len(pages))

	if p.Layout.IsZero() {
		fmt.Fprintf(out, "  Detected layout: %s\n", parser.DetectLayout(pages).Name)
	}

	candidates := p.ParseTables(pages, "")
	fmt.Fprintf(out, "  Found %d transaction(s)\n", len(candidates))
	if len(candidates) == 0 {
		fmt.Fprintln(out, "  Warning: No transactions found. The PDF layout may not match a supported statement.")
		fmt.Fprintln(out, "  Try specifying the layout explicitly with --layout if detection was used.")
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}
	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outputPath, writer.Export{Source: filepath.Base(inputPath), Candidates: candidates}); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	fmt.Fprintf(out, "  Output: %s\n", outputPath)

	var spent, received decimal.Decimal
	for _, cand := range candidates {
		if cand.Kind == models.KindIncome {
			received = received.Add(cand.Amount)
		} else {
			spent = spent.Add(cand.Amount)
		}
	}
	fmt.Fprintf(out, "  Expenses: %s  Income: %s\n", spent.StringFixed(2), received.StringFixed(2))
	fmt.Fprintln(out, "  Done.")
	return nil
}

func (c *cli) smsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms <body...>",
		Short: "Extract a transaction from a bank SMS",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, _ := cmd.Flags().GetString("sender")

			candidate, ok := (&parser.SMSParser{}).Parse(strings.Join(args, " "))
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no transaction found")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), struct {
				models.Candidate
				PaymentMethod models.PaymentMethod `json:"payment_method"`
			}{candidate, api.PaymentMethodForSender(sender)})
		},
	}
	cmd.Flags().String("sender", "", "SMS sender ID, e.g. VM-HDFCBK")
	return cmd
}

func (c *cli) quickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quick <text...>",
		Short: "Parse a short phrase such as \"coffee 150 yesterday\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate := (&parser.QuickParser{}).Parse(strings.Join(args, " "))
			if !candidate.Amount.IsPositive() {
				fmt.Fprintln(cmd.OutOrStdout(), "no transaction found")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), candidate)
		},
	}
}

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage API users",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a user and print its API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			user, err := s.CreateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %q (id %d)\nAPI token: %s\n", user.Name, user.ID, user.APIToken)
			return nil
		},
	})
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
