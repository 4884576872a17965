package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/osintscan/osintscan/internal/anonnet"
	"github.com/osintscan/osintscan/internal/config"
	"github.com/osintscan/osintscan/internal/custody"
	"github.com/osintscan/osintscan/internal/database"
	"github.com/osintscan/osintscan/internal/intel"
	"github.com/osintscan/osintscan/internal/investigate"
	"github.com/osintscan/osintscan/internal/log"
	"github.com/osintscan/osintscan/internal/model"
	"github.com/osintscan/osintscan/internal/orchestrator"
	"github.com/osintscan/osintscan/internal/pipeline"
	"github.com/osintscan/osintscan/internal/report"
	"github.com/spf13/cobra"
)

// NewInvestigateCmd creates the investigate command.
func NewInvestigateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investigate [identifier]",
		Short: "Investigate an identifier across public intelligence sources",
		Long: `Investigate classifies the given identifier (email, username, phone
number, IP address, domain, URL, or file hash) and queries the relevant
intelligence sources concurrently:

- Social platform profile discovery
- Account registry and commit author correlation
- Breach registry exposure
- Domain registration and DNS records
- IP geolocation and anonymization detection
- Malware reputation and exposed-device lookup (deep scan)

Source failures never abort the investigation; partial results are
reported with the failing sources listed.

Examples:
  # Investigate an email address
  osintscan investigate alice@example.com

  # Investigate several identifiers concurrently
  osintscan investigate alice@example.com ghost42 203.0.113.7

  # Enable deep scan (malware, devices, avatar metadata, adjustments)
  osintscan investigate --deep 203.0.113.7

  # Route all source lookups through Tor
  osintscan investigate --discreet alice@example.com

  # Use an existing Tor proxy instead of the embedded daemon
  osintscan investigate --discreet --external-tor 127.0.0.1:9150 alice@example.com

  # Output a JSON report to a file
  osintscan investigate --json -o report.json alice@example.com

Configuration file (.osintscan) example:
  sources:
    breach:
      apiKey: "bp-key"
    github:
      apiKey: "ghp_token"
    network:
      endpoint: "https://ipintel.internal.example/v2"`,
		Args: cobra.ArbitraryArgs,
		RunE: runInvestigateCmd,
	}

	// Collection behavior flags
	cmd.Flags().BoolP("deep", "d", false,
		"Enable deep scan sources and post-scoring adjustments")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each intelligence source request")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent investigations for multiple identifiers")
	cmd.Flags().StringP("actor", "a", custody.DefaultActor,
		"Actor name recorded in each case's custody trail")

	// Anonymity flags
	cmd.Flags().Bool("discreet", false,
		"Route all source lookups through Tor")
	cmd.Flags().StringP("external-tor", "e", "",
		"Use external Tor proxy at specified address (e.g., 127.0.0.1:9150)")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .osintscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runInvestigateCmd executes the investigate command.
func runInvestigateCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with identifier redaction
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runInvestigation(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.DeepScan, err = cmd.Flags().GetBool("deep")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.Actor, err = cmd.Flags().GetString("actor")
	if err != nil {
		return nil, err
	}
	if cfg.Actor == "" {
		cfg.Actor = custody.DefaultActor
	}

	cfg.Discreet, err = cmd.Flags().GetBool("discreet")
	if err != nil {
		return nil, err
	}

	externalTor, err := cmd.Flags().GetString("external-tor")
	if err != nil {
		return nil, err
	}
	if externalTor != "" {
		cfg.UseExternalTor = true
		cfg.TorProxyAddress = externalTor
	}

	cfg.TorStartupTimeout, err = cmd.Flags().GetDuration("tor-timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load source credentials from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Sources, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.Sources = &config.File{
			Sources: make(map[string]config.SourceConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always archive cases using the XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the identifiers to investigate
	cfg.Targets = args
	if len(args) > 0 {
		cfg.Target = args[0]
	}

	return cfg, nil
}

// runInvestigation executes the investigation for all configured targets.
func runInvestigation(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting investigation",
		"targets", len(cfg.Targets),
		"deepScan", cfg.DeepScan,
		"discreet", cfg.Discreet,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the case database if archiving is enabled
	var db *database.CaseDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open case database: %w", err)
		}
		defer db.Close()
		logger.Info("case database opened", "dir", cfg.DBDir)
	}

	// Build the HTTP client, routed through Tor in discreet mode
	httpClient, teardown, err := buildHTTPClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer teardown()

	orch := orchestrator.New(buildAdapters(cfg, httpClient, logger), logger)

	// Multiple identifiers run through the batch processor
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchInvestigation(ctx, cfg, orch, db, logger)
	}

	return runSequentialInvestigation(ctx, cfg, orch, db, logger)
}

// runSequentialInvestigation investigates targets one at a time through
// the investigation service, which handles archival and custody itself.
func runSequentialInvestigation(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, db *database.CaseDB, logger *slog.Logger) error {
	var store investigate.CaseStore
	if db != nil {
		store = db
	}
	svc := investigate.NewService(orch, store, cfg.Actor, logger)

	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Investigating %s...\n", target)
		startTime := time.Now()

		c, err := svc.Start(ctx, investigate.Request{
			Identifier: target,
			DeepScan:   cfg.DeepScan,
		})
		if err != nil {
			logger.Error("investigation failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Investigation error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Investigation completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, c); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchInvestigation investigates multiple targets concurrently using
// the batch processor, then archives each completed case.
func runBatchInvestigation(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, db *database.CaseDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch investigation of %d identifiers (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			p := pipeline.New(pipeline.WithLogger(logger))
			p.AddSteps(
				pipeline.NewCollectStep(orch, cfg.Actor, logger),
				pipeline.NewBuildGraphStep(),
				pipeline.NewScoreStep(cfg.Actor),
			)
			return p
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, cfg.DeepScan, func(c *model.InvestigationCase, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Investigation completed: %s\n", index+1, len(cfg.Targets), c.Identifier.Raw)

		if err := outputReport(cfg, c); err != nil {
			logger.Error("report failed", "target", c.Identifier.Raw, "error", err)
		}

		if err := archiveCase(ctx, db, c, cfg.Actor, logger); err != nil {
			logger.Error("failed to archive case", "target", c.Identifier.Raw, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch investigation completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// buildHTTPClient returns the HTTP client used by all source adapters.
// In discreet mode the client routes through Tor, either an external
// proxy or an embedded daemon. The returned teardown stops the embedded
// daemon; it is a no-op otherwise.
func buildHTTPClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Client, func(), error) {
	noop := func() {}

	if !cfg.Discreet {
		return &http.Client{Timeout: cfg.Timeout}, noop, nil
	}

	if cfg.UseExternalTor {
		client, err := anonnet.NewClient(cfg.TorProxyAddress, cfg.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
		}

		status := client.CheckConnection(ctx)
		if status != anonnet.ProxyStatusOK {
			return nil, nil, fmt.Errorf("tor proxy check failed: %s (make sure Tor is running at %s)",
				status, cfg.TorProxyAddress)
		}

		logger.Info("Tor proxy connection verified", "address", cfg.TorProxyAddress)
		return client.NewHTTPClient(), noop, nil
	}

	client, embedded, err := startEmbeddedTor(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	teardown := func() {
		logger.Info("stopping embedded Tor daemon...")
		if err := embedded.Stop(); err != nil {
			logger.Error("failed to stop embedded Tor", "error", err)
		}
	}
	return client.NewHTTPClient(), teardown, nil
}

// startEmbeddedTor starts an embedded Tor daemon using tornago.
// Returns the Tor client and embedded Tor manager on success.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*anonnet.Client, *anonnet.EmbeddedTor, error) {
	fmt.Println("Starting embedded Tor daemon...")
	fmt.Printf("This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	embedded := anonnet.NewEmbeddedTor(
		anonnet.WithStartupTimeout(cfg.TorStartupTimeout),
	)

	if err := embedded.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	logger.Info("embedded Tor daemon started",
		"socksAddr", embedded.SocksAddr(),
		"controlAddr", embedded.ControlAddr(),
	)

	fmt.Printf("Embedded Tor daemon started successfully!\n")
	fmt.Printf("SOCKS proxy: %s\n\n", embedded.SocksAddr())

	client, err := embedded.NewClient(cfg.Timeout)
	if err != nil {
		_ = embedded.Stop() //nolint:errcheck // Best effort cleanup
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}

	status := client.CheckConnection(ctx)
	if status != anonnet.ProxyStatusOK {
		_ = embedded.Stop() //nolint:errcheck // Best effort cleanup
		return nil, nil, fmt.Errorf("embedded Tor proxy check failed: %s", status)
	}

	return client, embedded, nil
}

// buildAdapters constructs every intelligence source adapter with its
// merged source configuration. The orchestrator decides per identifier
// type which of them actually run.
func buildAdapters(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []intel.Adapter {
	sources := cfg.Sources
	if sources == nil {
		sources = &config.File{Sources: make(map[string]config.SourceConfig)}
	}

	ua := cfg.UserAgent
	maxBody := cfg.MaxBodySize

	return []intel.Adapter{
		intel.NewSocialAdapter(sources.GetSourceConfig("social"), httpClient, logger, ua, maxBody),
		intel.NewIdentityAdapter(sources.GetSourceConfig("identity"), sources.GetSourceConfig("github"), httpClient, logger, ua, maxBody),
		intel.NewBreachAdapter(sources.GetSourceConfig("breach"), httpClient, logger, ua, maxBody),
		intel.NewDomainAdapter(sources.GetSourceConfig("domain"), httpClient, logger, ua, maxBody),
		intel.NewNetworkAdapter(sources.GetSourceConfig("network"), httpClient, logger, ua, maxBody),
		intel.NewMalwareAdapter(sources.GetSourceConfig("malware"), httpClient, logger, ua, maxBody),
		intel.NewDevicesAdapter(sources.GetSourceConfig("devices"), httpClient, logger, ua, maxBody),
	}
}

// outputReport outputs the investigation report in the requested format.
func outputReport(cfg *config.Config, c *model.InvestigationCase) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600)
		// Reports contain personal data that should only be readable by the owner
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full case with version metadata)
	if cfg.JSONReport {
		_, err := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint()).Write(c)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		_, err := report.NewMarkdownWriter(output).Write(c)
		return err
	}

	// Human-readable report (default)
	_, err := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose)).Write(c)
	return err
}

// archiveCase persists a completed case to the database with its final
// custody event. If db is nil, this function is a no-op.
func archiveCase(ctx context.Context, db *database.CaseDB, c *model.InvestigationCase, actor string, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	c.Status = model.StatusArchived
	custody.NewLogger(c, actor).Append(model.ActionArchived, "case persisted to store", c.Summary())

	if err := db.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save case: %w", err)
	}

	logger.Info("case archived", "case", c.ID)
	return nil
}
