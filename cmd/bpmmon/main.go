// cmd/bpmmon/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/bpmmon/internal/audit"
	"github.com/rusenback/bpmmon/internal/config"
	"github.com/rusenback/bpmmon/internal/docker"
	"github.com/rusenback/bpmmon/internal/ingest"
	"github.com/rusenback/bpmmon/internal/model"
	"github.com/rusenback/bpmmon/internal/observability"
	"github.com/rusenback/bpmmon/internal/presenter"
	"github.com/rusenback/bpmmon/internal/storage"
	"github.com/rusenback/bpmmon/internal/tui"
)

// importBatch is the number of events written per transaction on import
const importBatch = 500

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bpmmon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default <data dir>/config.yaml)")
	dbPath := fs.String("db", "", "audit database path")
	importPath := fs.String("import", "", "import audit events from a JSONL file and exit")
	noDocker := fs.Bool("no-docker", false, "do not follow process engine containers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if *noDocker {
		cfg.Docker.Enabled = false
	}

	// Create storage
	store, err := storage.NewStorage(cfg.Database, cfg.Retention)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	if *importPath != "" {
		log.SetOutput(stderr)
		return importFile(context.Background(), store, *importPath, stdout)
	}

	// The terminal belongs to the TUI from here on
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "bpmmon")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	shutdown, err := observability.InitTracing("bpmmon", observability.TracingConfig{
		Exporter: cfg.Tracing.Exporter,
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
		Output:   logFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Docker.Enabled {
		client, err := docker.NewClient(docker.Config{
			Host:        cfg.Docker.Host,
			TLSVerify:   cfg.Docker.TLSVerify,
			CertPath:    cfg.Docker.CertPath,
			Timeout:     cfg.Docker.Timeout,
			ServerLabel: cfg.Docker.ServerLabel,
		})
		if err != nil {
			fmt.Fprintf(stderr, "⚠ Docker unavailable, showing recorded audit data only: %v\n", err)
			log.Printf("docker: %v", err)
		} else {
			defer func() {
				cancel()
				client.Close()
			}()
			watcher := ingest.NewWatcher(client, store, cfg.RefreshInterval)
			go watcher.Run(ctx)
		}
	}

	m := tui.NewModel(tui.Options{
		Store:           store,
		Backend:         store,
		Tasks:           store,
		Filters:         presenter.LogFilterSettingsManager{NodeTypes: nodeTypes(cfg.NodeTypes)},
		PageSize:        cfg.PageSize,
		RefreshInterval: cfg.RefreshInterval,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(stdout))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// importFile loads a JSONL audit file into store in batches
func importFile(ctx context.Context, store *storage.Storage, path string, stdout io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	batch := make([]audit.Event, 0, importBatch)
	stats, err := audit.ReadAll(f, func(e audit.Event) error {
		batch = append(batch, e)
		if len(batch) < importBatch {
			return nil
		}
		err := store.Apply(ctx, batch)
		batch = batch[:0]
		return err
	})
	if err != nil {
		return fmt.Errorf("import of %s failed after %d events: %w", path, stats.Events, err)
	}
	if err := store.Apply(ctx, batch); err != nil {
		return fmt.Errorf("import of %s failed: %w", path, err)
	}

	fmt.Fprintf(stdout, "Imported %d events from %s (%d lines skipped)\n", stats.Events, path, stats.Skipped)
	return nil
}

func nodeTypes(names []string) []model.NodeType {
	out := make([]model.NodeType, 0, len(names))
	for _, n := range names {
		out = append(out, model.NodeType(n))
	}
	return out
}
