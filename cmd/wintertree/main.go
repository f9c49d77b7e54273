package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wintertree/internal/adapters/filesystem"
	"wintertree/internal/adapters/tui"
	"wintertree/internal/config"
)

func main() {
	scanFlag := flag.String("scan-dir", config.ScanDir(), "path to the scan output directory")
	flag.Parse()

	store := filesystem.NewStore(*scanFlag)

	app := tui.NewApp(store, store)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
