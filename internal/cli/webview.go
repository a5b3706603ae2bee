package cli

import (
	"fmt"

	"github.com/ljytool/ljytool/internal/webview"
	"github.com/spf13/cobra"
)

var (
	webviewAddr  string
	webviewPrint bool
)

func init() {
	webviewCmd.Flags().StringVar(&webviewAddr, "addr", webview.DefaultAddr, "Address to serve the page on")
	webviewCmd.Flags().BoolVar(&webviewPrint, "print", false, "Print the page HTML instead of serving it")
	rootCmd.AddCommand(webviewCmd)
}

var webviewCmd = &cobra.Command{
	Use:   "webview",
	Short: "Serve the static demo page",
	Long: `Serve a static demo page (an animated image) over local HTTP until
interrupted. Use --print to write the HTML to stdout instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if webviewPrint {
			_, err := cmd.OutOrStdout().Write(webview.Page())
			return err
		}

		srv, err := webview.Listen(webviewAddr)
		if err != nil {
			return fmt.Errorf("starting webview: %w", err)
		}
		newNotifier(cmd).Infof("Serving demo page at %s (Ctrl+C to stop)", srv.URL())
		return srv.Serve(cmd.Context())
	},
}
