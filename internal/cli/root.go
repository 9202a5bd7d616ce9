package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nconklindev/dateline/internal/config"
	"github.com/nconklindev/dateline/internal/logger"
	"github.com/nconklindev/dateline/internal/pipeline"
	"github.com/nconklindev/dateline/internal/ui"
	"github.com/nconklindev/dateline/internal/workbook"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	schedulePath string
	orderPath    string
	outputDir    string
	envDir       string
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dateline",
		Short: "Reconcile PINGRM delivery schedules against CODATE order exports",
		Long: `Dateline reads a PINGRM schedule export (CSV or XLSX) and a CODATE order
export (XLSX), matches schedule lines to orders by customer PO, and writes a
workbook that flags delivery weeks which changed between the two.

Without flags an interactive file picker asks for both files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.schedulePath, "schedule", "", "Schedule export (.csv or .xlsx)")
	cmd.Flags().StringVar(&opts.orderPath, "order", "", "Order export (.xlsx)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for the output workbook (overrides config)")
	cmd.Flags().StringVar(&opts.envDir, "env-dir", ".", "Directory holding an optional .env file")

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version, commit, date string) {
	RootCmd.Version = fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date)

	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		// Report through the standard logger in console format, since this
		// is an interactive tool.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
			Output: "stderr",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(opts.envDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	reader := workbook.NewReader(cfg.Schedule)
	writer := workbook.NewWriter(cfg.Output)
	pipelineOpts := pipeline.Options{
		Logger:    l,
		Normalize: cfg.Order,
		Dates:     cfg.Dates.Parser(),
	}

	interactive := opts.schedulePath == "" && opts.orderPath == "" &&
		(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))

	var res *pipeline.Result
	if interactive {
		res, err = runInteractive(ctx, reader, writer, pipelineOpts, cfg.Log.WritesToTerminal())
	} else {
		sources := workbook.FileSources{Reader: reader, SchedulePath: opts.schedulePath, OrderPath: opts.orderPath}
		res, err = pipeline.Run(ctx, sources, writer, pipelineOpts)
	}

	if errors.Is(err, pipeline.ErrSourceNotSelected) {
		l.Warn("data processing was cancelled for one or both datasets", zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}

	if !interactive {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(res))
	}
	return nil
}

func runInteractive(ctx context.Context, reader *workbook.Reader, writer *workbook.Writer, opts pipeline.Options, quiet bool) (*pipeline.Result, error) {
	runOpts := opts
	if quiet {
		// Log lines would draw over the alternate screen.
		runOpts.Logger = zap.NewNop()
	}

	runFn := func(schedulePath, orderPath string, progress chan<- float64) (*pipeline.Result, error) {
		o := runOpts
		o.Progress = progress
		sources := workbook.FileSources{Reader: reader, SchedulePath: schedulePath, OrderPath: orderPath}
		return pipeline.Run(ctx, sources, writer, o)
	}

	p := tea.NewProgram(ui.InitialModel(runFn), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(ui.Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.Cancelled() {
		return nil, fmt.Errorf("file selection cancelled: %w", pipeline.ErrSourceNotSelected)
	}
	if m.Err() != nil {
		return nil, m.Err()
	}

	res := m.Result()
	if res != nil {
		opts.Logger.Info("report written",
			zap.String("run_id", res.RunID),
			zap.String("path", res.Artifact),
		)
	}
	return res, nil
}
