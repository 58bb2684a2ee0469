package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn/signavio"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats <export.json|directory>...",
	Short: "Count stencils and diagram kinds across exports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectExports(args)
		if err != nil {
			return err
		}

		census := signavio.NewCensus()
		for _, f := range files {
			d, err := signavio.ParseFile(f)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			census.Add(d)
		}

		fmt.Printf("%d files, %d shapes\n\n", census.Files, census.Shapes)
		for _, kc := range census.Kinds() {
			fmt.Printf("%-24s %d\n", kc.Kind, kc.Files)
		}
		fmt.Println()
		rows := census.Rows()
		if statsTop > 0 && statsTop < len(rows) {
			rows = rows[:statsTop]
		}
		for _, row := range rows {
			fmt.Printf("%6d  %s\n", row.Count, row.Stencil)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 0, "print only the N most frequent stencils")

	AddCommand(statsCmd)
}
