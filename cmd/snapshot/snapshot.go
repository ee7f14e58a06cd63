package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"comparador/internal/charts"
	"comparador/internal/config"
	"comparador/internal/dashboard"
	"comparador/internal/logger"
	"comparador/internal/storage"
)

const (
	formatJSON    = "json"
	formatHTML    = "html"
	formatECharts = "echarts"
	formatPNG     = "png"
)

type snapshotOptions struct {
	Indicador1 string
	Indicador2 string
	Periodo    string
	Hide1      bool
	Hide2      bool
	Format     string
	Output     string
	Store      bool
}

// runSnapshot performs one refresh through the dashboard wiring, so the
// result is the chart the page would show for the same selection
func runSnapshot(ctx context.Context, cfg *config.Config, opts snapshotOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var store storage.StorageClient
	if opts.Store {
		s, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.StorageMode), cfg)
		if err != nil {
			return err
		}
		store = s
	}

	server := dashboard.NewServer(cfg, dashboard.NewFetcher(cfg), store)
	defer server.Close()

	err := server.Form.Apply(url.Values{
		dashboard.FieldIndicador1: {opts.Indicador1},
		dashboard.FieldIndicador2: {opts.Indicador2},
		dashboard.FieldPeriodo:    {opts.Periodo},
		dashboard.FieldCheck1:     {strconv.FormatBool(!opts.Hide1)},
		dashboard.FieldCheck2:     {strconv.FormatBool(!opts.Hide2)},
	})
	if err != nil {
		return err
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	chart, _ := server.Charts.Latest()

	if opts.Store {
		files, err := dashboard.ExportFiles(chart)
		if err != nil {
			return err
		}
		paths, err := storage.StoreExport(ctx, store, time.Now(), files)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(stdout, p)
		}
		logger.Component("snapshot").Info("snapshot stored", logger.Fields{"files": len(paths)})
		return nil
	}

	body, err := render(chart, opts.Format)
	if err != nil {
		return err
	}

	if opts.Output == "" || opts.Output == "-" {
		_, err = stdout.Write(body)
		return err
	}
	if err := os.WriteFile(opts.Output, body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	return nil
}

func render(chart dashboard.RenderedChart, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case formatJSON:
		return chart.Spec.MarshalPlotly(chart.Options)
	case formatHTML:
		snippet, err := charts.PlotlySnippet(dashboard.ChartDivID, chart.Spec, chart.Options)
		if err != nil {
			return nil, err
		}
		return []byte(snippet.HTML), nil
	case formatECharts:
		if err := charts.RenderECharts(&buf, chart.Spec); err != nil {
			return nil, err
		}
	case formatPNG:
		if err := charts.RenderPNG(&buf, chart.Spec, chart.Options); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return buf.Bytes(), nil
}
