package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/backlog-md/board/internal/debug"
	"github.com/backlog-md/board/internal/loader"
	"github.com/backlog-md/board/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "data",
	Short:   "Export tasks and milestones as a JSON snapshot",
	Long: `Write the loaded tasks, milestones and archived milestones as one JSON
document. The output can be read back with --snapshot.`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		s := mustOpenSession()

		if output == "" || output == "-" {
			if err := loader.WriteJSON(stdout, s.snap); err != nil {
				FatalError("%v", err)
			}
			return
		}
		f, err := os.Create(output) // #nosec G304 - user-specified output path
		if err != nil {
			FatalError("creating %s: %v", output, err)
		}
		if err := loader.WriteJSON(f, s.snap); err != nil {
			_ = f.Close()
			FatalError("%v", err)
		}
		if err := f.Close(); err != nil {
			FatalError("%v", err)
		}
		debug.PrintNormal("%s Exported %d tasks, %d milestones (%d archived) to %s\n", ui.RenderPassIcon(),
			len(s.snap.Tasks), len(s.snap.Milestones), len(s.snap.ArchivedMilestones), output)
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
