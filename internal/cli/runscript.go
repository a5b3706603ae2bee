package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ljytool/ljytool/internal/config"
	"github.com/ljytool/ljytool/internal/launcher"
	"github.com/ljytool/ljytool/internal/logging"
	"github.com/ljytool/ljytool/internal/sink"
	"github.com/spf13/cobra"
)

// OutputLogName is the persistent log every run appends to.
const OutputLogName = "script-output.log"

const (
	choiceYes = "Yes"
	choiceNo  = "No"
)

func init() {
	rootCmd.AddCommand(runScriptCmd)
}

var runScriptCmd = &cobra.Command{
	Use:   "run-script",
	Short: "Run the configured script and stream its output",
	Long: `Run the script chosen with 'config set-script' through the host command
interpreter (cmd.exe /c on Windows, sh elsewhere). Standard output and
standard error are streamed to the terminal and appended to
~/.ljytool/logs/script-output.log; standard error lines are prefixed with
"Error: ". A final line reports the script's exit code.`,
	Args: cobra.NoArgs,
	RunE: runRunScript,
}

func runRunScript(cmd *cobra.Command, args []string) error {
	n := newNotifier(cmd)

	scriptPath := config.ScriptPath()
	if scriptPath == "" {
		choice, err := n.Choose("Script path is not set. Configure it now?", choiceYes, choiceNo)
		if err != nil {
			return err
		}
		if choice != choiceYes {
			return nil
		}
		path, err := n.Ask("Path to the script:")
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}
		return setScript(cmd, path)
	}

	logFile, err := sink.OpenFile(filepath.Join(config.LogDir(), OutputLogName))
	if err != nil {
		return err
	}
	defer logFile.Close()

	interp := config.ScriptInterpreter()
	req := launcher.Request{
		ScriptPath: scriptPath,
		Program:    interp.Program,
		Flag:       interp.Flag,
		Encoding:   config.ScriptEncoding(),
	}

	out := sink.Tee{sink.NewWriter(cmd.OutOrStdout()), logFile}
	res, err := launcher.New(out, launcher.WithLock(logFile)).Run(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("running script: %w", err)
	}

	logging.Info().
		Str("run_id", res.RunID).
		Str("log", logFile.Path()).
		Bool("success", res.Success()).
		Msg("script run complete")
	return nil
}
