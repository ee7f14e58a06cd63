package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"comparador/internal/config"
)

func snapshotConfig(t *testing.T) *config.Config {
	return &config.Config{
		DebounceWindow:    300 * time.Millisecond,
		ErrorDismissDelay: 3 * time.Second,
		DefaultIndicador1: "selic",
		DefaultIndicador2: "ipca",
		DefaultPeriodo:    "12",
		StorageMode:       "local",
		LocalExportDir:    filepath.Join(t.TempDir(), "exports"),
		MockupMode:        true,
		MocksDir:          filepath.Join("..", "..", "internal", "mocks"),
	}
}

func TestSnapshotJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewSnapshotCommand(snapshotConfig(t))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--indicador1", "dolar", "--indicador2", "ibov", "--periodo", "6", "--hide2"})
	cmd.SetContext(context.Background())

	if err := cmd.Execute(); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	var plot struct {
		Data []struct {
			Name    string          `json:"name"`
			X       []string        `json:"x"`
			Visible json.RawMessage `json:"visible"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &plot); err != nil {
		t.Fatalf("output is not chart JSON: %v", err)
	}
	if len(plot.Data) != 4 {
		t.Fatalf("Expected 4 traces, got %d", len(plot.Data))
	}
	if plot.Data[1].Name != "DOLAR" || len(plot.Data[1].X) != 6 {
		t.Errorf("Unexpected primary trace %s with %d points", plot.Data[1].Name, len(plot.Data[1].X))
	}
	if string(plot.Data[3].Visible) != `"legendonly"` {
		t.Errorf("Expected hidden second series, got %s", plot.Data[3].Visible)
	}
}

func TestSnapshotFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func([]byte) bool
	}{
		{formatHTML, func(b []byte) bool { return strings.Contains(string(b), "Plotly.newPlot") }},
		{formatECharts, func(b []byte) bool { return strings.Contains(string(b), "echarts") }},
		{formatPNG, func(b []byte) bool { return bytes.HasPrefix(b, []byte("\x89PNG")) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out."+tt.format)
			opts := snapshotOptions{Indicador1: "energia", Indicador2: "gasolina", Periodo: "12", Format: tt.format, Output: path}
			if err := runSnapshot(context.Background(), snapshotConfig(t), opts, &bytes.Buffer{}); err != nil {
				t.Fatalf("runSnapshot failed: %v", err)
			}
			body, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(body) {
				t.Errorf("unexpected %s output", tt.format)
			}
		})
	}
}

func TestSnapshotStore(t *testing.T) {
	cfg := snapshotConfig(t)
	var out bytes.Buffer
	opts := snapshotOptions{Indicador1: "cesta", Indicador2: "aluguel", Periodo: "12", Store: true}

	if err := runSnapshot(context.Background(), cfg, opts, &out); err != nil {
		t.Fatalf("runSnapshot failed: %v", err)
	}

	lines := strings.Fields(out.String())
	if len(lines) != 3 {
		t.Fatalf("Expected 3 stored paths, got %v", lines)
	}
	for _, p := range lines {
		if _, err := os.Stat(filepath.Join(cfg.LocalExportDir, filepath.FromSlash(p))); err != nil {
			t.Errorf("stored file %s missing: %v", p, err)
		}
	}
}

func TestSnapshotErrors(t *testing.T) {
	cfg := snapshotConfig(t)

	bad := snapshotOptions{Indicador1: "dolar", Indicador2: "ibov", Periodo: "12", Format: "gif", Output: "-"}
	if err := runSnapshot(context.Background(), cfg, bad, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unknown format")
	}

	empty := snapshotOptions{Indicador1: "nada", Indicador2: "nada", Periodo: "12", Format: formatJSON, Output: "-"}
	if err := runSnapshot(context.Background(), cfg, empty, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for indicators without data")
	}

	period := snapshotOptions{Indicador1: "dolar", Indicador2: "ibov", Periodo: "doze", Format: formatJSON, Output: "-"}
	if err := runSnapshot(context.Background(), cfg, period, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for malformed period")
	}
}
