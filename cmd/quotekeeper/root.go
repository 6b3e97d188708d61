package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	profile  string
	baseURL  string
	logLevel string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "quotekeeper",
		Short: "Browse and manage quotes stored in a quotes API",
		Long: `quotekeeper is a front-end for a quotes HTTP API.

"serve" runs the web UI. The other commands perform one action against the
API and print the resulting page to the terminal.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.CompletionOptions.DisableDefaultCmd = true

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.profile, "profile", "p", profile, "config profile, loads configs/<profile>.yaml")
	flags.StringVar(&opts.baseURL, "base-url", "", "quotes API base URL (overrides services.quotes.base_url)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides log.level)")

	cmd.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
		newRandomCmd(opts),
		newShowCmd(opts),
	)

	return cmd
}
