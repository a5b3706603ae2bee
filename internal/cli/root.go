package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/ljytool/ljytool/internal/branding"
	"github.com/ljytool/ljytool/internal/config"
	"github.com/ljytool/ljytool/internal/logging"
	"github.com/ljytool/ljytool/internal/notify"
	"github.com/ljytool/ljytool/internal/updater"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` bundles a few everyday helpers: a greeting, a static demo page,
a file inspector, and a runner for a configured script whose output is
streamed to the terminal and appended to a persistent log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		notify.SetNoColor(noColor)

		cfg := logging.DefaultConfig()
		cfg.Output = cmd.ErrOrStderr()
		level := logLevel
		if level == "" {
			level = config.LogLevel()
		}
		if level != "" {
			cfg.Level = logging.ParseLevel(level)
		}
		logging.Init(cfg)

		if cmd.Name() == "version" || !config.UpdateCheckEnabled() {
			return
		}
		// Non-blocking notice from the cached release check.
		updater.New(buildVersion).Notify(cmd.ErrOrStderr(), config.Dir())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// newNotifier returns a notifier bound to the command's streams.
func newNotifier(cmd *cobra.Command) *notify.Notifier {
	return notify.New(cmd.ErrOrStderr(), cmd.InOrStdin())
}

// Execute runs the root command with build info injected via ldflags.
// The returned error has already been shown to the user.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		notify.New(rootCmd.ErrOrStderr(), nil).Error(err.Error())
		return err
	}
	return nil
}
