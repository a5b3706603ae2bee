package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileName is the optional dotenv file read from the script's directory.
const EnvFileName = ".env"

// ScriptEnv returns base extended with the variables from a .env file next
// to scriptPath. File values override base. A missing file returns base
// unchanged.
func ScriptEnv(scriptPath string, base []string) ([]string, error) {
	envPath := filepath.Join(filepath.Dir(scriptPath), EnvFileName)
	vars, err := godotenv.Read(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, fmt.Errorf("reading %s: %w", envPath, err)
	}

	env := append([]string(nil), base...)
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = setEnv(env, k, vars[k])
	}
	return env, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
