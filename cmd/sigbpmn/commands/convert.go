package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn"
)

var (
	convertOut      string
	convertExporter string
	convertNS       string
	convertWorkers  int
	convertIndent   int
	convertSuffix   string
	convertForeign  bool
	convertNoSnap   bool
	convertNoRoute  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <export.json|directory>...",
	Short: "Convert export documents to BPMN 2.0 XML",
	Long: `Convert one or more Signavio JSON exports to BPMN 2.0 XML. A
directory argument converts every .json file directly inside it.
Without --out, converted files are written next to their input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := convertOptions(cmd)
		if err != nil {
			return err
		}
		c, err := sigbpmn.New(opts...)
		if err != nil {
			return err
		}
		suffix := sigbpmn.NewOptions(opts...).OutputSuffix
		out := expandPath(convertOut)

		for _, arg := range args {
			arg = expandPath(arg)
			info, err := os.Stat(arg)
			if err != nil {
				return err
			}

			if info.IsDir() {
				sum, err := c.ConvertDir(cmd.Context(), arg, out)
				if err != nil {
					return err
				}
				printSummary(sum)
				continue
			}

			dst := ""
			if out != "" {
				if err = os.MkdirAll(out, 0o755); err != nil {
					return err
				}
				dst = filepath.Join(out, sigbpmn.OutputPath(filepath.Base(arg), suffix))
			}
			res, err := c.ConvertFile(arg, dst)
			if err != nil {
				return err
			}
			printResult(res)
		}
		return nil
	},
}

func convertOptions(cmd *cobra.Command) ([]sigbpmn.Option, error) {
	opts, err := baseOptions()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("exporter") {
		opts = append(opts, sigbpmn.WithExporter(convertExporter))
	}
	if flags.Changed("target-namespace") {
		opts = append(opts, sigbpmn.WithTargetNamespace(convertNS))
	}
	if flags.Changed("workers") {
		opts = append(opts, sigbpmn.WithWorkers(convertWorkers))
	}
	if flags.Changed("indent") {
		opts = append(opts, sigbpmn.WithIndent(convertIndent))
	}
	if flags.Changed("suffix") {
		opts = append(opts, sigbpmn.WithOutputSuffix(convertSuffix))
	}
	if convertForeign {
		opts = append(opts, sigbpmn.WithSkipNonBPMN(false))
	}
	if convertNoSnap {
		opts = append(opts, sigbpmn.WithSnapWaypoints(false))
	}
	if convertNoRoute {
		opts = append(opts, sigbpmn.WithRouteMessageFlows(false))
	}
	return opts, nil
}

func printResult(res *sigbpmn.Result) {
	if res.Skipped {
		fmt.Printf("%s: skipped (%s diagram)\n", res.Input, res.Kind)
		return
	}
	fmt.Printf("%s -> %s\n", res.Input, res.Output)
	for _, row := range res.Tally() {
		fmt.Printf("  %s x%d\n", row.Category, row.Count)
	}
}

func printSummary(sum *sigbpmn.Summary) {
	for _, res := range sum.Results {
		printResult(res)
	}
	for _, f := range sum.Failures {
		fmt.Printf("%s: %v\n", f.Input, f.Err)
	}
	fmt.Printf("%d files: %d converted, %d skipped, %d failed (%s)\n",
		sum.Total, sum.Succeeded, sum.Skipped, sum.Failed, sum.Elapsed)
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output directory (default: next to each input)")
	convertCmd.Flags().StringVar(&convertExporter, "exporter", "", "exporter name stamped on the definitions root")
	convertCmd.Flags().StringVar(&convertNS, "target-namespace", "", "targetNamespace of produced documents")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 0, "concurrent conversions for directory inputs")
	convertCmd.Flags().IntVar(&convertIndent, "indent", 2, "XML indent width, 0 writes single-line output")
	convertCmd.Flags().StringVar(&convertSuffix, "suffix", ".bpmn", "suffix of converted files")
	convertCmd.Flags().BoolVar(&convertForeign, "include-foreign", false, "convert diagrams drawn with non-BPMN stencil sets too")
	convertCmd.Flags().BoolVar(&convertNoSnap, "no-snap", false, "keep raw edge endpoints instead of snapping to shape borders")
	convertCmd.Flags().BoolVar(&convertNoRoute, "no-route", false, "keep message flows straight instead of adding elbows")

	AddCommand(convertCmd)
}
