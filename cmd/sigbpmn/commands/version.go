package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vine-io/sigbpmn"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sigbpmn version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(sigbpmn.Version)
	},
}

func init() {
	AddCommand(versionCmd)
}
