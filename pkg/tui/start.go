package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"zerpy/pkg/api"
	"zerpy/pkg/controller"
	"zerpy/pkg/refresh"
)

func Start(ctrl *controller.Controller, coord *refresh.Coordinator, ledger *api.Client, version string) {
	Version = version
	p := tea.NewProgram(
		initialModel(ctrl, coord, ledger),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
