// Package daemon configures and starts the rawlinkd daemon and its subsystems.
package daemon

import (
	"context"
	"fmt"
	"net"

	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/http"
	"github.com/leg100/rawlink/internal/item"
	"github.com/leg100/rawlink/internal/link"
	"github.com/leg100/rawlink/internal/logr"
	"github.com/leg100/rawlink/internal/storage"
	"golang.org/x/sync/errgroup"
)

// shareKeyPurpose derives the share link key from the configured secret,
// keeping it distinct from the raw link key.
const shareKeyPurpose = "share"

type Daemon struct {
	Config
	logr.Logger

	Items *item.Service
	Links *link.Service

	// ListenAddress is the listening address of the daemon's http server,
	// e.g. localhost:10000
	ListenAddress *net.TCPAddr

	store    storage.Backend
	handlers []internal.Handlers
}

// New builds a new daemon and opens its store. The store is closed when
// Start returns.
func New(logger logr.Logger, cfg Config) (*Daemon, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	store, err := storage.Open(logger, cfg.Storage)
	if err != nil {
		return nil, err
	}

	var baseURL *internal.WebURL
	if !cfg.BaseURL.IsZero() {
		baseURL = &cfg.BaseURL
		logger.V(0).Info("set base url", "url", baseURL.String())
	}

	linkService, err := link.NewService(link.Options{
		Logger:               logger,
		Items:                store,
		Secret:               cfg.Secret,
		Window:               cfg.FreshnessWindow,
		OriginPolicy:         link.PrefixPolicy(cfg.ClientIdentityPrefix),
		BaseURL:              baseURL,
		ClientIdentityHeader: cfg.ClientIdentityHeader,
		InvocationTemplate:   cfg.InvocationTemplate,
		ShareSigner:          internal.NewSigner(internal.DeriveKey(cfg.Secret, shareKeyPurpose)),
		ShareLinkTTL:         cfg.ShareLinkTTL,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up link service: %w", err)
	}

	itemService := item.NewService(item.Options{
		Logger:        logger,
		Store:         store,
		Sharer:        linkService,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	return &Daemon{
		Config: cfg,
		Logger: logger,
		Items:  itemService,
		Links:  linkService,
		store:  store,
		handlers: []internal.Handlers{
			itemService,
			linkService,
		},
	}, nil
}

// Start starts the daemon and blocks until the context is canceled or a
// subsystem fails. The started channel is closed once the daemon is serving
// requests.
func (d *Daemon) Start(ctx context.Context, started chan struct{}) error {
	// Cancel context the first time a func started with g.Go() fails
	g, ctx := errgroup.WithContext(ctx)

	// close store upon exit
	defer func() {
		if err := d.store.Close(); err != nil {
			d.Error(err, "closing store")
		}
	}()

	// Construct web server and start listening on port
	server, err := http.NewServer(d.Logger, http.ServerConfig{
		SSL:                  d.SSL,
		CertFile:             d.CertFile,
		KeyFile:              d.KeyFile,
		EnableRequestLogging: d.EnableRequestLogging,
		Handlers:             d.handlers,
	})
	if err != nil {
		return fmt.Errorf("setting up http server: %w", err)
	}
	ln, err := net.Listen("tcp", d.Address)
	if err != nil {
		return err
	}
	d.ListenAddress = ln.Addr().(*net.TCPAddr)

	defer ln.Close()

	// Some stores run background work, e.g. reloading a file shared with
	// other processes.
	if system, ok := d.store.(Startable); ok {
		sub := &Subsystem{
			Name:   "store",
			Logger: d.Logger,
			System: system,
		}
		sub.Start(ctx, g)
	}

	// Run HTTP/JSON-API server
	g.Go(func() error {
		if err := server.Start(ctx, ln); err != nil {
			return fmt.Errorf("http server terminated: %w", err)
		}
		return nil
	})

	// Inform the caller the daemon has started
	close(started)

	// Block until error or Ctrl-C received.
	return g.Wait()
}
