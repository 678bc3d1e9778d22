// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"invoice-ingest/internal/config"
	"invoice-ingest/internal/extract"
	"invoice-ingest/internal/fields"
	"invoice-ingest/internal/help"
	"invoice-ingest/internal/ingest"
	"invoice-ingest/internal/invoice"
	"invoice-ingest/internal/match"
	"invoice-ingest/internal/observability"
	"invoice-ingest/internal/report"
	"invoice-ingest/internal/vendor"
	"invoice-ingest/internal/version"
)

func main() {
	// Parse command line flags
	inputFile := flag.String("file", "", "Path to the input PDF file")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	outputFormat := flag.String("format", "", "Output format: text, json (default: text)")
	verbose := flag.Bool("verbose", false, "Display detailed information")
	debug := flag.Bool("debug", false, "Enable debug logging of pipeline operations")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	enableOCR := flag.Bool("enable-ocr", false, "Enable the OCR fallback for image-based PDFs")
	enableFields := flag.Bool("enable-fields", false, "Enable model-backed structured field extraction")
	confirmVendor := flag.String("confirm", "", "Vendor ID to confirm for the given -name (learns the name as an alias)")
	confirmName := flag.String("name", "", "Extracted vendor name to learn as an alias (used with -confirm)")
	listVendors := flag.Bool("list-vendors", false, "List known vendors and exit")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Environment overrides (API keys live in .env during development)
	_ = godotenv.Load()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if *showHelp {
		help.NewSystem(*noColor).ShowGeneralHelp()
		return
	}

	cfg := config.LoadConfigOrDefault(*configFile)
	if *outputFormat == "" {
		*outputFormat = cfg.Defaults.Format
	}
	if cfg.Defaults.Verbose {
		*verbose = true
	}
	if cfg.Defaults.Debug {
		*debug = true
	}
	if cfg.Defaults.NoColor {
		*noColor = true
	}

	// Auto-detect non-interactive environment
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("CI") != "" {
		*noColor = true
	}

	formatter := report.NewFormatter(os.Stdout, *outputFormat, *noColor)

	level := observability.LevelMetrics
	if *debug {
		level = observability.LevelDebug
	}
	observer := observability.NewStandardObserver(level, os.Stderr)

	vendors, err := vendor.NewStore(cfg.Stores.VendorsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	invoices, err := invoice.NewStore(cfg.Stores.InvoicesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *listVendors {
		for _, v := range vendors.List() {
			fmt.Printf("%-16s %s\n", v.ID, v.PrimaryName)
		}
		return
	}

	pipeline, chain := buildPipeline(cfg, vendors, invoices, *enableOCR, *enableFields, observer)

	if *confirmVendor != "" {
		if *confirmName == "" {
			fmt.Fprintln(os.Stderr, "Error: -confirm requires -name")
			os.Exit(1)
		}
		if err := pipeline.ConfirmMatch(*confirmVendor, *confirmName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Learned alias %q for vendor %s\n", *confirmName, *confirmVendor)
		return
	}

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(filepath.Clean(*inputFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	// Overall budget: every registered strategy at its own timeout, plus
	// slack for matching and persistence.
	ctx, cancel := context.WithTimeout(context.Background(), chain.Budget()+10*time.Second)
	defer cancel()

	out, err := pipeline.Ingest(ctx, data, filepath.Base(*inputFile))
	if err != nil {
		formatter.Failure(err)
		os.Exit(1)
	}

	if err := formatter.Outcome(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering output: %v\n", err)
		os.Exit(1)
	}

	if *verbose && out.Status == ingest.StatusCreated {
		fmt.Printf("  Hints: %d names, %d accounts, domain %q\n",
			len(out.Hints.Names), len(out.Hints.Accounts), out.Hints.Domain)
	}
}

// buildPipeline assembles the ingestion pipeline from configuration. The
// extraction chain is returned alongside so the caller can size the overall
// context budget from the strategies actually registered.
func buildPipeline(cfg *config.Config, vendors *vendor.Store, invoices *invoice.Store, enableOCR, enableFields bool, observer *observability.StandardObserver) (*ingest.Pipeline, *extract.Chain) {
	chainOpts := extract.Options{
		MaxFileSize:     cfg.Extraction.MaxFileSizeMB * 1024 * 1024,
		MinTextLength:   cfg.Extraction.MinTextLength,
		StrategyTimeout: time.Duration(cfg.Extraction.StrategyTimeoutSeconds) * time.Second,
		OCRTimeout:      time.Duration(cfg.Extraction.OCR.TimeoutSeconds) * time.Second,
		OCRMaxPages:     cfg.Extraction.OCR.MaxPages,
		EnableOCR:       enableOCR || cfg.Extraction.OCR.Enabled,
	}
	chain := extract.NewChain(chainOpts)
	chain.SetObserver(observer)

	resolver := match.NewResolver(match.Options{
		NameWeight:         cfg.Matching.NameWeight,
		DomainWeight:       cfg.Matching.DomainWeight,
		AddressWeight:      cfg.Matching.AddressWeight,
		ContractHintWeight: cfg.Matching.ContractHintWeight,
		SuggestionFloor:    cfg.Matching.SuggestionFloor,
		AutoMatchThreshold: cfg.Matching.AutoMatchThreshold,
		MaxCandidates:      cfg.Matching.MaxCandidates,
	})

	var fieldExtractor fields.Extractor = fields.Disabled{}
	if enableFields || cfg.Fields.Enabled {
		fieldExtractor = fields.NewClient(fields.ClientConfig{
			Endpoint:  cfg.Fields.Endpoint,
			Model:     cfg.Fields.Model,
			APIKeyEnv: cfg.Fields.APIKeyEnv,
		}, observer)
	}

	pipeline := ingest.New(chain, resolver, vendors, invoices, fieldExtractor)
	pipeline.SetObserver(observer)
	return pipeline, chain
}
