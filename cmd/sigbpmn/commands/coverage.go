package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn/bpmn"
	"github.com/vine-io/sigbpmn/signavio"
)

var coverageUnused bool

var coverageCmd = &cobra.Command{
	Use:   "coverage <export.json|directory>...",
	Short: "Report which observed stencils the converter maps",
	Long: `Compare the stencils observed across the given exports against the
converter's stencil table. Unmapped stencils turn into unknown-stencil
diagnostics when converted.`,
	Args: cobra.MinimumNArgs(1),
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

		observed := census.Stencils()
		mapped, unmapped, unused := bpmn.Coverage(observed)
		fmt.Printf("%d stencils observed, %d mapped, %d unmapped, %d table entries unused\n",
			len(observed), len(mapped), len(unmapped), len(unused))

		if len(unmapped) > 0 {
			fmt.Println("\nunmapped:")
			for _, s := range unmapped {
				fmt.Printf("  %s x%d\n", s, census.Count(s))
			}
		}
		if coverageUnused && len(unused) > 0 {
			fmt.Println("\nunused table entries:")
			for _, s := range unused {
				fmt.Printf("  %s\n", s)
			}
		}
		return nil
	},
}

func init() {
	coverageCmd.Flags().BoolVar(&coverageUnused, "unused", false, "also list table entries no input exercised")

	AddCommand(coverageCmd)
}
