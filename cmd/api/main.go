package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitLookupFailed = 1
	ExitConfigError  = 2
	ExitRuntimeError = 3
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "og-image-service",
	Short: "Proxy the representative image of a web page",
	Long: `og-image-service resolves the og:image, twitter:image or icon of a page
and serves the image bytes, falling back to a placeholder on any failure.`,
	RunE:          runServe,
	SilenceErrors: true,
	SilenceUsage:  true,
}

type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }

func (e *exitErr) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitErr{code: code, err: err}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .env in the working directory)")
	rootCmd.AddCommand(serveCmd, resolveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var e *exitErr
		if errors.As(err, &e) {
			os.Exit(e.code)
		}
		os.Exit(ExitConfigError)
	}
}
