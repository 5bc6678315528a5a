package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joelkehle/veridian-reports/internal/archive"
	"github.com/joelkehle/veridian-reports/internal/config"
	"github.com/joelkehle/veridian-reports/internal/funnel"
	"github.com/joelkehle/veridian-reports/internal/logging"
	"github.com/joelkehle/veridian-reports/internal/pdf"
	"github.com/joelkehle/veridian-reports/internal/report"
	"github.com/joelkehle/veridian-reports/internal/store"
	"github.com/joelkehle/veridian-reports/internal/telemetry"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	cfg        config.Config
	logger     *zap.Logger
	shutdownFn func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:           "veridian",
	Short:         "Location-intelligence Web3 strategy reports",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Development)
		if err != nil {
			return err
		}
		shutdownFn, err = telemetry.Setup(cmd.Context(), telemetry.Config{
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			Version:      version,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shutdownFn != nil {
			if err := shutdownFn(context.Background()); err != nil && logger != nil {
				logger.Warn("telemetry shutdown", zap.Error(err))
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <city> <state>",
	Short: "Print the market classification for a location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := funnel.New(nil, nil, nil, nil, logger)
		preview, err := svc.Classify(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), preview)
	},
}

var (
	requestPath string
	seed        uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assemble a templated report bundle from a request file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if requestPath == "" {
			return fmt.Errorf("--request is required")
		}
		blob, err := os.ReadFile(requestPath)
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		var req report.Request
		if err := json.Unmarshal(blob, &req); err != nil {
			return fmt.Errorf("decode request: %w", err)
		}
		var r report.Rand
		if seed != 0 {
			r = report.NewSeededRand(seed)
		}
		bundle, err := report.NewAssembler(r).Assemble(req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), bundle)
	},
}

var (
	reportID string
	userID   string
	outPath  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a stored report to PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(reportID) == "" || strings.TrimSpace(userID) == "" {
			return fmt.Errorf("--report-id and --user-id are required")
		}
		st, err := store.NewSQLiteStore(cfg.Database.Path, store.Config{})
		if err != nil {
			return err
		}
		defer st.Close()

		arch, err := newArchiver(cmd.Context())
		if err != nil {
			return err
		}
		svc := funnel.New(st, nil, newRenderer(), arch, logger)
		out, err := svc.RenderPDF(cmd.Context(), reportID, userID)
		if err != nil {
			return err
		}
		path := outPath
		if path == "" {
			path = out.Filename
		}
		if err := os.WriteFile(path, out.Data, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		logger.Info("wrote report pdf", zap.String("path", path), zap.Int("bytes", len(out.Data)), zap.String("archive_url", out.URL))
		return nil
	},
}

func newRenderer() *pdf.Renderer {
	return pdf.NewRenderer(pdf.NewChromiumPrinter(cfg.PDF.ChromePath, cfg.PDF.Timeout.Std()))
}

// newArchiver returns nil when no bucket is configured.
func newArchiver(ctx context.Context) (archive.Archiver, error) {
	if cfg.Archive.Bucket == "" {
		return nil, nil
	}
	a, err := archive.NewS3Archiver(ctx, cfg.Archive.Bucket, cfg.Archive.Region, logger.Named("archive"))
	if err != nil {
		return nil, err
	}
	return a, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	generateCmd.Flags().StringVar(&requestPath, "request", "", "path to a report request JSON file")
	generateCmd.Flags().Uint64Var(&seed, "seed", 0, "competitor-count seed (0 = time-seeded)")

	renderCmd.Flags().StringVar(&reportID, "report-id", "", "stored report id")
	renderCmd.Flags().StringVar(&userID, "user-id", "", "owner of the report")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default Veridian_Report_<company>.pdf)")

	rootCmd.AddCommand(serveCmd, classifyCmd, generateCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
