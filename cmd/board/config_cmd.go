package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/backlog-md/board/internal/config"
	"github.com/backlog-md/board/internal/ui"
)

// writeSettings prints the resolved settings as YAML, prefixed by the file
// they were read from.
func writeSettings(w io.Writer, settings map[string]any, source string) error {
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintln(w, ui.RenderMuted("# "+source))
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return err
	}
	return enc.Close()
}

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "data",
	Short:   "Show the resolved configuration",
	Long: `Show the configuration after defaults, the config file and BOARD_* environment
variables are merged. Flags are not included.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.AllSettings()
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(settings)
			return
		}
		if err := writeSettings(stdout, settings, config.ConfigFileUsed()); err != nil {
			FatalError("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
