package cmd

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/scrollbox/internal/config"
	"github.com/zjrosen/scrollbox/internal/mode/stress"
)

var stressCmd = &cobra.Command{
	Use:   "stress [count]",
	Short: "Scroll a large generated item sequence",
	Long:  `Generate a large number of variable-height blocks to exercise the offset cache and the incremental re-measure path. Defaults to 1000 blocks.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStress,
}

func init() {
	rootCmd.AddCommand(stressCmd)
}

func runStress(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	count := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		count = n
	}

	cleanup := setup()
	defer cleanup()

	p := tea.NewProgram(
		stress.New(cfg, count),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running stress demo: %w", err)
	}
	return nil
}
