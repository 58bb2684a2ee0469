package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn/signavio"
)

var classifyMove bool

var classifyCmd = &cobra.Command{
	Use:   "classify <export.json|directory>...",
	Short: "Group exports by stencil set",
	Long: `Print the diagram kind of each export. With --move, files are moved
into per-kind directories next to their current location.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectExports(args)
		if err != nil {
			return err
		}

		for _, f := range files {
			d, err := signavio.ParseFile(f)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			kind := d.Kind.String()
			fmt.Printf("%-24s %s\n", kind, f)

			if !classifyMove {
				continue
			}
			dir := filepath.Join(filepath.Dir(f), kind)
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			if err = os.Rename(f, filepath.Join(dir, filepath.Base(f))); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyMove, "move", false, "move files into per-kind directories")

	AddCommand(classifyCmd)
}
