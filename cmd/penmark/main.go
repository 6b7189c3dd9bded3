// Command penmark detects authorship drift in student writing and assigns
// batches of scanned documents to class roster members.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/penmark/internal/adapters/driven/config/file"
	"github.com/custodia-labs/penmark/internal/adapters/driven/scorer/ollama"
	"github.com/custodia-labs/penmark/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/penmark/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/penmark/internal/adapters/driven/telemetry"
	"github.com/custodia-labs/penmark/internal/adapters/driving/cli"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/core/services"
	"github.com/custodia-labs/penmark/internal/logger"
	"github.com/custodia-labs/penmark/internal/normalisers"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// Environment variables read at startup, optionally from a .env file.
const (
	envStorage   = "PENMARK_STORAGE"
	envOllamaURL = "PENMARK_OLLAMA_URL"
	envAIModel   = "PENMARK_AI_MODEL"
)

// rosterStore is implemented by both storage backends.
type rosterStore interface {
	driven.RosterStore
	driven.RosterProvider
	SetExpireAfter(d time.Duration)
}

// stores groups the driven storage ports.
type stores struct {
	baselines   driven.BaselineStore
	rosters     rosterStore
	assignments driven.AssignmentStore
	close       func() error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	home, err := file.DefaultDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	st, err := openStores(home)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Warn("closing storage: %v", err)
		}
	}()

	st.rosters.SetExpireAfter(settings.Baseline.ExpireAfter)

	registry := normalisers.Default(nil)
	recorder := telemetry.NewRecorder()

	analysis := services.NewAnalysisService(registry, settings.Analysis)
	analysis.SetMetricsRecorder(recorder)

	baseline := services.NewBaselineService(st.baselines, *settings)
	if url := os.Getenv(envOllamaURL); url != "" {
		baseline.SetAIScorer(ollama.New(ollama.Config{
			BaseURL: url,
			Model:   os.Getenv(envAIModel),
		}))
	}

	assignment := services.NewAssignmentService(registry, st.rosters, settings.Assignment)
	assignment.SetAssignmentStore(st.assignments)
	assignment.SetMetricsRecorder(recorder)

	cli.SetServices(cli.Services{
		Analysis:   analysis,
		Baseline:   baseline,
		Assignment: assignment,
		Roster:     services.NewRosterService(st.rosters, st.baselines),
		Settings:   settingsService,
		Metrics:    recorder.Handler(),
		Engine:     settings,
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// openStores opens SQLite storage under home, or in-memory storage when
// PENMARK_STORAGE=memory.
func openStores(home string) (*stores, error) {
	if os.Getenv(envStorage) == "memory" {
		baselines := memory.NewBaselineStore()
		return &stores{
			baselines:   baselines,
			rosters:     memory.NewRosterStore(baselines),
			assignments: memory.NewAssignmentStore(),
			close:       func() error { return nil },
		}, nil
	}

	db, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return &stores{
		baselines:   db.BaselineStore(),
		rosters:     db.RosterStore(),
		assignments: db.AssignmentStore(),
		close:       db.Close,
	}, nil
}
