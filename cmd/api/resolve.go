package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/og-image-service/pkg/config"
	"github.com/user/og-image-service/pkg/logger"
)

var resolveVerbose bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Print the image URL a page resolves to",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "print the metadata source next to the URL")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	log, err := logger.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return withExitCode(ExitRuntimeError, err)
	}
	defer a.Close()

	match, err := a.proxy.ResolveImageURL(ctx, args[0])
	if err != nil {
		return withExitCode(ExitLookupFailed, err)
	}

	out := cmd.OutOrStdout()
	if resolveVerbose {
		fmt.Fprintf(out, "%s\t%s\n", match.Source, match.URL)
		return nil
	}
	fmt.Fprintln(out, match.URL)
	return nil
}
