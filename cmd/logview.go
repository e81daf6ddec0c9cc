package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/scrollbox/internal/config"
	"github.com/zjrosen/scrollbox/internal/mode/logview"
)

var logviewCmd = &cobra.Command{
	Use:   "logview <file>",
	Short: "Tail a file in a scrolling container",
	Long:  `Watch a file and append its lines to a scrolling container, following the newest content like a pager's follow mode.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLogview,
}

func init() {
	rootCmd.AddCommand(logviewCmd)
}

func runLogview(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cleanup := setup()
	defer cleanup()

	model, err := logview.New(cfg, args[0])
	if err != nil {
		return fmt.Errorf("creating logview: %w", err)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running logview: %w", err)
	}
	return nil
}
