// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/charity-mergers/internal/config"
	"fjacquet/charity-mergers/internal/container"
	"fjacquet/charity-mergers/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewNopLogger()

	// AppContainer holds the dependencies built from configuration
	AppContainer *container.Container

	// ConfigFile is an explicit configuration file; empty searches the defaults
	ConfigFile string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "charity-mergers",
		Short: "A CLI tool to identify and analyze charities in the register of mergers.",
		Long: `charity-mergers is a CLI tool that reads the register of merged charities,
derives a charity identity (registered number or category) for every transferor
and transferee, and joins the mergers against annual returns and trustees.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  initializeApp,
		PersistentPostRunE: closeApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init initializes the root command and all flags. Calling it again is a no-op.
func Init() {
	initOnce.Do(defineFlags)
}

func defineFlags() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Register CSV file")
	flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: standard output)")
	flags.StringVar(&ConfigFile, "config", "", "Configuration file (default: config.yaml in the standard locations)")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("csv-delimiter", ",", "Delimiter for CSV output")
	flags.String("encoding", "cp1252", "Register file encoding (cp1252, utf-8, utf-8-bom)")
	flags.String("rules", "", "Classification rules YAML (default: embedded table)")
	flags.Bool("ai-enabled", false, "Enable Gemini review hints")
}

func initializeApp(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigWithFlags(ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	AppContainer = c
	Log = c.GetLogger().WithField(logging.FieldCommand, cmd.Name())
	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	if AppContainer == nil {
		return nil
	}
	return AppContainer.Close()
}

// GetContainer returns the initialized container.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}
