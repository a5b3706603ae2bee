package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ljytool/ljytool/internal/fileinfo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statCmd)
}

var statCmd = &cobra.Command{
	Use:   "stat <file>",
	Short: "Show a file's size, creation and modification time",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("select a file to inspect: %s stat <file>", cmd.Root().Name())
	}

	info, err := fileinfo.Inspect(args[0])
	if errors.Is(err, fileinfo.ErrIsDirectory) {
		newNotifier(cmd).Warn("the selected path is a directory, not a file; choose a file instead")
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", args[0], err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), fileinfo.Render(info, fileinfo.Locale(os.Getenv)))
	return nil
}
