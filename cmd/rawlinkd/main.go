package main

import (
	"context"
	"fmt"
	"io"
	"os"

	cmdutil "github.com/leg100/rawlink/cmd"
	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/daemon"
	"github.com/leg100/rawlink/internal/logr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	// Configure ^C to terminate program
	ctx, cancel := context.WithCancel(context.Background())
	cmdutil.CatchCtrlC(cancel)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		cmdutil.PrintError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := daemon.NewConfig()

	cmd := &cobra.Command{
		Use:           "rawlinkd",
		Short:         "rawlink daemon",
		Long:          "rawlinkd serves stored content via signed, time-limited links.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Define run func in order to enable cobra's default help functionality
		Run: func(cmd *cobra.Command, args []string) {},
	}
	cmd.SetOut(out)

	var (
		help, version bool
		configFile    string
	)

	flags := cmd.Flags()
	flags.BoolVar(&version, "version", false, "Print version of rawlinkd")
	flags.BoolVarP(&help, "help", "h", false, "Print usage information")
	flags.StringVar(&configFile, "config", "", "Path to YAML config file. Flags and environment variables take precedence.")

	flags.Var(&cfg.Secret, "secret", "Secret key for signing links, at least 16 bytes. Required.")
	flags.DurationVar(&cfg.FreshnessWindow, "freshness-window", cfg.FreshnessWindow, "Period either side of a link's timestamp during which it is accepted.")
	flags.StringVar(&cfg.ClientIdentityPrefix, "client-identity-prefix", cfg.ClientIdentityPrefix, "Required case-insensitive prefix of the client identity when fetching content. Empty permits all clients.")
	flags.StringVar(&cfg.ClientIdentityHeader, "client-identity-header", cfg.ClientIdentityHeader, "Request header carrying the client identity.")
	flags.Var(&cfg.BaseURL, "base-url", "Externally visible URL links are rooted at. Derived from each request if unset.")
	flags.StringVar(&cfg.InvocationTemplate, "invocation-template", cfg.InvocationTemplate, "Template for the text returned when issuing a link. {{.URL}} is replaced with the link.")
	flags.DurationVar(&cfg.ShareLinkTTL, "share-link-ttl", 0, "Lifespan of signed share links to the issue endpoint. Zero disables signing.")
	flags.Int64Var(&cfg.MaxUploadSize, "max-upload-size", cfg.MaxUploadSize, "Maximum permitted upload size in bytes.")

	flags.StringVar(&cfg.Address, "address", cfg.Address, "Listening address")
	flags.BoolVar(&cfg.SSL, "ssl", false, "Toggle SSL")
	flags.StringVar(&cfg.CertFile, "cert-file", "", "Path to SSL certificate (required if enabling SSL)")
	flags.StringVar(&cfg.KeyFile, "key-file", "", "Path to SSL key (required if enabling SSL)")
	flags.BoolVar(&cfg.EnableRequestLogging, "log-http-requests", false, "Log HTTP requests")

	flags.StringVar(&cfg.Storage.Backend, "store", cfg.Storage.Backend, "Storage backend: memory, file or pebble.")
	flags.StringVar(&cfg.Storage.Path, "data-path", cfg.Storage.Path, "Path to JSON file (file store) or directory (pebble store).")
	flags.IntVar(&cfg.Storage.CacheSize, "cache-size", 0, "Maximum read cache size in MB. 0 means unlimited size.")
	flags.DurationVar(&cfg.Storage.CacheTTL, "cache-expiry", 0, "Read cache entry TTL. 0 disables the cache.")

	loggerCfg := logr.NewConfigFromFlags(flags)

	if err := cmdutil.SetFlagsFromEnvVariables(flags); err != nil {
		return errors.Wrap(err, "failed to populate config from environment vars")
	}

	if err := cmd.ParseFlags(args); err != nil {
		return err
	}

	if help {
		return cmd.Help()
	}

	if version {
		fmt.Fprintln(cmd.OutOrStdout(), internal.Version)
		return nil
	}

	if configFile != "" {
		if err := cmdutil.SetFlagsFromConfigFile(flags, configFile); err != nil {
			return err
		}
	}
	cfg.LogConfig = *loggerCfg

	logger, err := logr.New(loggerCfg)
	if err != nil {
		return err
	}

	d, err := daemon.New(logger, cfg)
	if err != nil {
		return err
	}
	return d.Start(ctx, make(chan struct{}))
}
