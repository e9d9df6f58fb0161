package item

import (
	"context"
	"fmt"
	"io"
	"os"

	rawhttp "github.com/leg100/rawlink/internal/http"
	"github.com/spf13/cobra"
)

type (
	CLI struct {
		client cliClient
	}

	cliClient interface {
		Create(ctx context.Context, content []byte) (*CreateResponse, error)
		List(ctx context.Context) ([]string, error)
	}
)

// NewCommands returns the item commands. The client is expected to be
// configured by the parent command before any command runs.
func NewCommands(client *rawhttp.Client) []*cobra.Command {
	cli := &CLI{client: &Client{Client: client}}
	return []*cobra.Command{
		cli.uploadCommand(),
		cli.listCommand(),
	}
}

func (a *CLI) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "upload [file]",
		Short:         "Upload content, reading from stdin if file is -",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				content []byte
				err     error
			)
			if args[0] == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			created, err := a.client.Create(cmd.Context(), content)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded item %s\n", created.ID)
			fmt.Fprintf(out, "Token: %s\n", created.Token)
			fmt.Fprintf(out, "Issue URL: %s\n", created.IssueURL)
			return nil
		},
	}
}

func (a *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List items",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.client.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
