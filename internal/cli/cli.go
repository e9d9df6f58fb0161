// Package cli provides the CLI client, i.e. the `rawlink` binary.
package cli

import (
	"context"
	"io"

	cmdutil "github.com/leg100/rawlink/cmd"
	"github.com/leg100/rawlink/internal/http"
	"github.com/leg100/rawlink/internal/item"
	"github.com/leg100/rawlink/internal/link"
	"github.com/leg100/rawlink/internal/logr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// CLI is the `rawlink` cli application
type CLI struct {
	httpClient *http.Client
}

func NewCLI() *CLI {
	return &CLI{
		httpClient: &http.Client{},
	}
}

func (a *CLI) Run(ctx context.Context, args []string, out io.Writer) error {
	var (
		cfg      http.ClientConfig
		insecure bool
	)

	cmd := &cobra.Command{
		Use:               "rawlink",
		Short:             "Upload content and issue signed links to it",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.newClient(&cfg, &insecure),
	}

	cmd.PersistentFlags().StringVar(&cfg.URL, "address", http.DefaultURL, "Address of rawlink server")
	cmd.PersistentFlags().BoolVar(&cfg.RetryRequests, "retry", true, "Retry requests upon transient errors")
	cmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "Skip verification of the server's TLS certificate")

	cmd.SetArgs(args)
	cmd.SetOut(out)

	cmd.AddCommand(item.NewCommands(a.httpClient)...)
	cmd.AddCommand(link.NewCommands(a.httpClient)...)

	if err := cmdutil.SetFlagsFromEnvVariables(cmd.PersistentFlags()); err != nil {
		return errors.Wrap(err, "failed to populate config from environment vars")
	}

	return cmd.ExecuteContext(ctx)
}

func (a *CLI) newClient(cfg *http.ClientConfig, insecure *bool) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		if *insecure {
			cfg.Transport = http.InsecureTransport
		}
		logger, err := logr.New(&logr.Config{})
		if err != nil {
			return err
		}
		cfg.Logger = logger

		httpClient, err := http.NewClient(*cfg)
		if err != nil {
			return err
		}
		*a.httpClient = *httpClient
		return nil
	}
}
