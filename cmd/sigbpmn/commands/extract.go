package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn/signavio"
)

var (
	extractOut       string
	extractDelimiter string
)

var extractCmd = &cobra.Command{
	Use:   "extract <workbook.csv|archive.sgx>...",
	Short: "Unpack model documents from workbooks and archives",
	Long: `Extract the JSON model documents bundled in a Signavio CSV workbook
or an .sgx archive. Without --out, each input unpacks into a directory
named after it with a _models suffix.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var delim rune
		if extractDelimiter != "" {
			runes := []rune(extractDelimiter)
			if len(runes) != 1 {
				return fmt.Errorf("delimiter must be a single character, got %q", extractDelimiter)
			}
			delim = runes[0]
		}

		for _, arg := range args {
			arg = expandPath(arg)
			dir := expandPath(extractOut)
			if dir == "" {
				dir = strings.TrimSuffix(arg, filepath.Ext(arg)) + "_models"
			}

			switch strings.ToLower(filepath.Ext(arg)) {
			case ".sgx", ".zip":
				n, err := signavio.ExtractArchive(arg, dir)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d models -> %s\n", arg, n, dir)
			default:
				res, err := signavio.ExtractWorkbookFile(arg, dir, delim)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %d models -> %s", arg, res.Written, dir)
				if res.Skipped > 0 || res.Invalid > 0 {
					fmt.Printf(" (%d empty, %d invalid)", res.Skipped, res.Invalid)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output directory (default: <input>_models)")
	extractCmd.Flags().StringVar(&extractDelimiter, "delimiter", "", "workbook field delimiter (default: comma)")

	AddCommand(extractCmd)
}
