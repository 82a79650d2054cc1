package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/treasure-hunt/internal/config"
	"github.com/jwebster45206/treasure-hunt/internal/logger"
	"github.com/jwebster45206/treasure-hunt/pkg/hunt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	out, err := logger.OpenOutput(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	log := logger.Setup(cfg, out)
	log.Info("Starting treasure hunt",
		"environment", cfg.Environment,
		"locale", cfg.Locale,
		"speed", cfg.Speed)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load catalog")
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	source := hunt.NewSource(catalog, hunt.ClockForSpeed(cfg.Speed), hunt.NewRand(cfg.Seed), log)
	runner := hunt.NewRunner(source, log)

	session, err := hunt.NewSession(hunt.Arena{Width: cfg.ArenaWidth, Height: cfg.ArenaHeight})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(catalog, runner, session, cfg.FrameInterval(), log),
		tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	runner.Supersede()
	log.Info("Treasure hunt closed")
}

// loadCatalog prefers a catalog file over the built-in locale catalogs
func loadCatalog(cfg *config.Config) (*hunt.Catalog, error) {
	if cfg.CatalogPath == "" {
		return hunt.CatalogFor(cfg.Locale), nil
	}
	return hunt.LoadCatalog(cfg.CatalogPath)
}
