package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"comparador/internal/config"
	"comparador/internal/logger"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(logger.Global(), cfg.LogLevel, cfg.LogFormat)

	if err := NewSnapshotCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewSnapshotCommand builds the one-shot chart command
func NewSnapshotCommand(cfg *config.Config) *cobra.Command {
	opts := snapshotOptions{
		Indicador1: cfg.DefaultIndicador1,
		Indicador2: cfg.DefaultIndicador2,
		Periodo:    cfg.DefaultPeriodo,
		Format:     formatJSON,
		Output:     "-",
	}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one comparison, build its chart and write or store it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Indicador1, "indicador1", opts.Indicador1, "first indicator key (left axis)")
	flags.StringVar(&opts.Indicador2, "indicador2", opts.Indicador2, "second indicator key (right axis)")
	flags.StringVar(&opts.Periodo, "periodo", opts.Periodo, "period in months")
	flags.BoolVar(&opts.Hide1, "hide1", false, "start with the first series legend-only")
	flags.BoolVar(&opts.Hide2, "hide2", false, "start with the second series legend-only")
	flags.StringVarP(&opts.Format, "format", "f", opts.Format, "output format: json, html, echarts or png")
	flags.StringVarP(&opts.Output, "output", "o", opts.Output, "output file, - for stdout")
	flags.BoolVar(&opts.Store, "store", false, "store every format through the configured storage backend")

	return cmd
}
