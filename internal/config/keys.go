package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Known configuration keys.
const (
	KeyScriptPath         = "script.path"
	KeyScriptExtension    = "script.extension"
	KeyScriptEncoding     = "script.encoding"
	KeyInterpreterProgram = "interpreter.program"
	KeyInterpreterFlag    = "interpreter.flag"
	KeyLogLevel           = "log.level"
	KeyUpdateCheck        = "update.check"
)

// DefaultEncoding is the encoding assumed for script output when
// script.encoding is unset.
const DefaultEncoding = "utf-8"

// Interpreter names the host command interpreter and the flag that makes it
// run a single script and exit. An empty Flag passes the script path as the
// interpreter's only argument.
type Interpreter struct {
	Program string
	Flag    string
}

// DefaultInterpreter returns the interpreter for the current platform:
// `cmd.exe /c <path>` on Windows and `sh <path>` elsewhere. sh reads the
// path as a file operand, so it is never word-split and needs no exec bit.
func DefaultInterpreter() Interpreter {
	if runtime.GOOS == "windows" {
		return Interpreter{Program: "cmd.exe", Flag: "/c"}
	}
	return Interpreter{Program: "sh"}
}

// DefaultScriptExtension returns the script extension accepted by
// set-script when script.extension is unset.
func DefaultScriptExtension() string {
	if runtime.GOOS == "windows" {
		return ".bat"
	}
	return ".sh"
}

// ScriptPath returns the configured script path, or "" when unset.
func ScriptPath() string {
	return viper.GetString(KeyScriptPath)
}

// ScriptExtension returns the accepted script extension.
func ScriptExtension() string {
	if ext := viper.GetString(KeyScriptExtension); ext != "" {
		return ext
	}
	return DefaultScriptExtension()
}

// ScriptEncoding returns the encoding used to decode script output.
func ScriptEncoding() string {
	if enc := viper.GetString(KeyScriptEncoding); enc != "" {
		return enc
	}
	return DefaultEncoding
}

// ScriptInterpreter returns the configured interpreter, falling back to the
// platform default for each unset field.
func ScriptInterpreter() Interpreter {
	in := DefaultInterpreter()
	if p := viper.GetString(KeyInterpreterProgram); p != "" {
		in.Program = p
	}
	if viper.IsSet(KeyInterpreterFlag) {
		in.Flag = viper.GetString(KeyInterpreterFlag)
	}
	return in
}

// LogLevel returns the configured diagnostic log level, or "" when unset.
func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

// UpdateCheckEnabled reports whether the startup update banner is enabled.
// Defaults to true.
func UpdateCheckEnabled() bool {
	if !viper.IsSet(KeyUpdateCheck) {
		return true
	}
	return viper.GetBool(KeyUpdateCheck)
}
