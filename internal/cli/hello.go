package cli

import (
	"github.com/ljytool/ljytool/internal/branding"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(helloCmd)
}

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Show a greeting",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		newNotifier(cmd).Info("Hello World from " + branding.DisplayName())
	},
}
