package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sigbpmn",
	Short: "sigbpmn converts Signavio JSON exports to BPMN 2.0 XML",
	Long: `sigbpmn works with the JSON documents the Signavio editor exports:
it converts them to standards-conformant BPMN 2.0 XML, unpacks workbook
and .sgx archive exports, and reports on the stencils a corpus uses.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML options file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every diagnostic as it is reported")
}

// AddCommand registers a subcommand on the root.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// baseOptions assembles the option list every conversion-style command
// starts from: the config file first, so flags can override it.
func baseOptions() ([]sigbpmn.Option, error) {
	var opts []sigbpmn.Option
	if configPath != "" {
		loaded, err := sigbpmn.LoadOptions(configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, loaded...)
	}
	if verbose {
		opts = append(opts, sigbpmn.WithVerbose(true))
	}
	return opts, nil
}
