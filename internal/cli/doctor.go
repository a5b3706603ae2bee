package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ljytool/ljytool/internal/config"
	"github.com/ljytool/ljytool/internal/platform"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration and script setup",
	Long: `Run diagnostic checks: the config file matches the settings schema,
the command interpreter is on PATH and the configured script exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0

		fmt.Fprintln(out, "Config check:")
		if err := validateConfig(cmd); err != nil {
			failed++
		}

		interp := config.ScriptInterpreter()
		fmt.Fprintln(out, "Interpreter check:")
		if !checkInterpreter(out, interp) {
			failed++
		}

		fmt.Fprintln(out, "Script check:")
		if !checkScript(out, config.ScriptPath(), interp) {
			failed++
		}

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func checkInterpreter(w io.Writer, in config.Interpreter) bool {
	path, err := exec.LookPath(in.Program)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", in.Program)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s (flag %q)\n", in.Program, path, in.Flag)
	return true
}

func checkScript(w io.Writer, path string, in config.Interpreter) bool {
	if path == "" {
		fmt.Fprintf(w, "  [WARN] no script configured (run `config set-script <path>`)\n")
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintf(w, "  [FAIL] %s is a directory\n", path)
		return false
	}
	// With a flag the interpreter runs the path as a command, which needs
	// the exec bit. Without one it only reads the file.
	if in.Flag != "" && !platform.IsExecutable(info) {
		fmt.Fprintf(w, "  [WARN] %s is not executable; the interpreter may refuse to run it\n", path)
		return true
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", path)
	return true
}
