package commands

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn/bpmn"
)

var checkReport string

var checkCmd = &cobra.Command{
	Use:   "check <document.bpmn>...",
	Short: "Lint converted BPMN documents",
	Long: `Run structural checks over BPMN 2.0 XML documents: broken flow
references, missing diagram shapes, duplicate ids. Exits non-zero when
any document carries an error-severity issue.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var report *csv.Writer
		if checkReport != "" {
			f, err := os.Create(expandPath(checkReport))
			if err != nil {
				return err
			}
			defer f.Close()
			report = csv.NewWriter(f)
			defer report.Flush()
			if err = report.Write([]string{"file", "severity", "element", "message"}); err != nil {
				return err
			}
		}

		failed := 0
		for _, arg := range args {
			arg = expandPath(arg)
			data, err := os.ReadFile(arg)
			if err != nil {
				return err
			}
			issues, err := bpmn.Check(data)
			if err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}

			switch {
			case len(issues) == 0:
				fmt.Printf("%s: ok\n", arg)
			case bpmn.Pass(issues):
				fmt.Printf("%s: ok, %d warnings\n", arg, len(issues))
			default:
				failed++
				fmt.Printf("%s: %d issues\n", arg, len(issues))
			}
			for _, issue := range issues {
				fmt.Printf("  %s\n", issue)
				if report != nil {
					rec := []string{arg, issue.Severity.String(), issue.Element, issue.Message}
					if err = report.Write(rec); err != nil {
						return err
					}
				}
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkReport, "report", "", "write issues to a CSV file")

	AddCommand(checkCmd)
}
