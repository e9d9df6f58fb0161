package link

import (
	"context"
	"fmt"

	rawhttp "github.com/leg100/rawlink/internal/http"
	"github.com/spf13/cobra"
)

// DefaultClientIdentity is the identity presented by the CLI when fetching
// content.
const DefaultClientIdentity = "Roblox/rawlink"

type (
	CLI struct {
		client cliClient
	}

	cliClient interface {
		Share(ctx context.Context, id string) (*ShareResponse, error)
		Issue(ctx context.Context, issueURL string) (string, string, error)
		Fetch(ctx context.Context, rawURL, header, identity string) ([]byte, error)
	}
)

// NewCommands returns the link commands. The client is expected to be
// configured by the parent command before any command runs.
func NewCommands(client *rawhttp.Client) []*cobra.Command {
	cli := &CLI{client: &Client{Client: client}}
	return []*cobra.Command{
		cli.shareCommand(),
		cli.fetchCommand(),
	}
}

func (a *CLI) shareCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "share [id]",
		Short:         "Print the issue URL for an item",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Share(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.IssueURL)
			if resp.ExpiresAt != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Expires at %s\n", resp.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
}

func (a *CLI) fetchCommand() *cobra.Command {
	var identity, header string

	cmd := &cobra.Command{
		Use:           "fetch [id]",
		Short:         "Issue a raw link for an item and fetch its content",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			share, err := a.client.Share(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, rawURL, err := a.client.Issue(cmd.Context(), share.IssueURL)
			if err != nil {
				return err
			}
			content, err := a.client.Fetch(cmd.Context(), rawURL, header, identity)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
	cmd.Flags().StringVar(&identity, "client-identity", DefaultClientIdentity, "Client identity presented when fetching content")
	cmd.Flags().StringVar(&header, "client-identity-header", DefaultClientIdentityHeader, "Header in which the client identity is presented")

	return cmd
}
