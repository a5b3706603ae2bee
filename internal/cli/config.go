package cli

import (
	"fmt"
	"strconv"

	"github.com/ljytool/ljytool/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetScriptCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long:  `Read and write settings stored at ~/.ljytool/config.yaml (or $LJYTOOL_HOME/config.yaml).`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		var value any = args[1]
		// Booleans are stored as YAML booleans so the schema accepts them.
		if b, err := strconv.ParseBool(args[1]); err == nil {
			value = b
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configSetScriptCmd = &cobra.Command{
	Use:   "set-script <path>",
	Short: "Choose the script run by run-script",
	Long: `Store the absolute path of the script that run-script executes.
The file must exist and carry the configured extension (script.extension,
.bat on Windows and .sh elsewhere by default).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setScript(cmd, args[0])
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file against the settings schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig(cmd)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
	},
}

func setScript(cmd *cobra.Command, path string) error {
	abs, err := config.SetScriptPath(path)
	if err != nil {
		return fmt.Errorf("setting script path: %w", err)
	}
	newNotifier(cmd).Infof("Script path set: %s", abs)
	return nil
}

func validateConfig(cmd *cobra.Command) error {
	path := config.FilePath()
	result, err := config.ValidateFile(path)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(out, "  [ OK ] %s is valid\n", path)
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s) in %s:\n", len(result.Issues), path)
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(out, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("config %s has %d validation issue(s)", path, len(result.Issues))
}
