package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"browsetree/internal/adapters/opener"
	"browsetree/internal/adapters/tui"
	"browsetree/internal/adapters/tui/views"
	"browsetree/internal/app"
	"browsetree/internal/config"
	"browsetree/internal/logging"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "path to the config file")
	dataDirFlag := flag.String("data-dir", "", "override the data directory")
	ephemeralFlag := flag.Bool("ephemeral", false, "keep every store in memory")
	flag.Parse()

	if err := run(*configFlag, *dataDirFlag, *ephemeralFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dataDir string, ephemeral bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	// The alt screen owns the terminal, so logs only go to a file.
	lc := app.LoggingConfig(cfg, "tui")
	if lc.Output != "file" {
		lc.Output = "file"
		lc.FilePath = filepath.Join(cfg.DataDirPath(), "browsetree.log")
		if ephemeral {
			lc.FilePath = filepath.Join(os.TempDir(), "browsetree.log")
		}
	}
	logger, err := logging.New(lc)
	if err != nil {
		return err
	}
	defer logger.Close()

	a, err := app.Open(cfg, logger.Logger, app.Options{Ephemeral: ephemeral})
	if err != nil {
		return err
	}
	defer a.Close()

	deps := views.Deps{
		Trees:  a.Trees,
		Links:  a.Links,
		Env:    a.Env,
		Opener: opener.NewOpener(),
		Clock:  a.Clock,
		Logger: logger.Logger,
	}
	if !clipboard.Unsupported {
		deps.CopyText = clipboard.WriteAll
	}

	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
