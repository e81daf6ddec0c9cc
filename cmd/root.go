// Package cmd wires the scrollbox demo binary: config loading, logging,
// and the demo subcommands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/scrollbox/internal/config"
	"github.com/zjrosen/scrollbox/internal/log"
	"github.com/zjrosen/scrollbox/internal/mode/feed"
	"github.com/zjrosen/scrollbox/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query the terminal background color BEFORE
	// any Bubble Tea program starts, so the OSC response cannot race with
	// the input loop and show up as garbage input.
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "scrollbox",
	Short:   "A scrolling container demo for terminal UIs",
	Long:    `Demos for the scrollbox component: a virtualized scrolling container for variable-height content with selection navigation and scroll anchoring.`,
	Version: version,
	RunE:    runFeed,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/scrollbox/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log to scrollbox.log")
	rootCmd.Flags().String("alignment", "",
		"default scroll-into-view alignment (auto|top|bottom|center)")

	_ = viper.BindPFlag("ui.alignment", rootCmd.Flags().Lookup("alignment"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("ui.alignment", defaults.UI.Alignment)
	viper.SetDefault("ui.debug_overflow", defaults.UI.DebugOverflow)
	viper.SetDefault("ui.show_scrollbar", defaults.UI.ShowScrollbar)
	viper.SetDefault("ui.wheel_lines", defaults.UI.WheelLines)
	viper.SetDefault("viewport.width", defaults.Viewport.Width)
	viper.SetDefault("viewport.height", defaults.Viewport.Height)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .scrollbox/config.yaml (current directory)
		// 2. ~/.config/scrollbox/config.yaml (user config)
		if _, err := os.Stat(".scrollbox/config.yaml"); err == nil {
			viper.SetConfigFile(".scrollbox/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "scrollbox"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".scrollbox/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If the write fails, continue with defaults.
		}
	}

	_ = viper.Unmarshal(&cfg)
	cfg.Path = viper.ConfigFileUsed()
}

// setup applies shared startup: logging, theme, mouse zones.
// Returns a cleanup function.
func setup() func() {
	cleanup := func() {}
	if debug || os.Getenv("SCROLLBOX_DEBUG") != "" {
		if c, err := log.InitWithTeaLog("scrollbox.log", "scrollbox"); err == nil {
			cleanup = c
		} else {
			fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
		}
	}

	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error)
	zone.NewGlobal()
	return cleanup
}

func runFeed(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cleanup := setup()
	defer cleanup()

	p := tea.NewProgram(
		feed.New(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running feed demo: %w", err)
	}
	return nil
}

// SetVersion sets the version string shown by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
