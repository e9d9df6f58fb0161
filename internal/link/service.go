package link

import (
	"errors"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"github.com/gorilla/mux"
	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/logr"
)

const (
	// DefaultInvocationTemplate renders the text returned by the issue
	// endpoint.
	DefaultInvocationTemplate = `loadstring(game:HttpGet("{{.URL}}"))()`

	// DefaultClientIdentityHeader is the request header carrying the
	// fetcher's declared identity.
	DefaultClientIdentityHeader = "User-Agent"

	// DefaultClientIdentityPrefix is the client identity prefix required
	// when no origin policy is given.
	DefaultClientIdentityPrefix = "roblox"
)

// ErrNoSecret is returned when constructing the service without a secret key.
var ErrNoSecret = errors.New("secret key is not configured")

type (
	// ShareSigner signs and verifies time-limited share URLs for the issue
	// endpoint.
	ShareSigner interface {
		internal.Signer
		internal.Verifier
	}

	Service struct {
		logr.Logger
		*Signer
		*Verifier

		web *web
	}

	Options struct {
		logr.Logger
		Items

		// Secret is the key with which links are signed.
		Secret []byte
		// Window is the period either side of a link's timestamp during
		// which it is accepted.
		Window time.Duration
		// OriginPolicy decides which client identities may fetch content.
		// Defaults to requiring DefaultClientIdentityPrefix.
		OriginPolicy OriginPolicy
		// BaseURL is the externally visible address links are rooted at. If
		// unset it is derived from each request.
		BaseURL *internal.WebURL
		// ClientIdentityHeader names the header carrying the client identity.
		ClientIdentityHeader string
		// InvocationTemplate renders the output of the issue endpoint.
		InvocationTemplate string
		// ShareSigner signs share URLs when ShareLinkTTL is non-zero.
		ShareSigner ShareSigner
		// ShareLinkTTL is the lifespan of share URLs. Zero disables signing
		// of share URLs.
		ShareLinkTTL time.Duration
		// Clock overrides the current time, for testing.
		Clock func() time.Time
	}
)

func NewService(opts Options) (*Service, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if opts.Window == 0 {
		opts.Window = DefaultWindow
	}
	if opts.OriginPolicy == nil {
		opts.OriginPolicy = PrefixPolicy(DefaultClientIdentityPrefix)
	}
	if opts.ClientIdentityHeader == "" {
		opts.ClientIdentityHeader = DefaultClientIdentityHeader
	}
	if opts.InvocationTemplate == "" {
		opts.InvocationTemplate = DefaultInvocationTemplate
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.ShareLinkTTL > 0 && opts.ShareSigner == nil {
		return nil, errors.New("share link signer is required when share link TTL is set")
	}
	tmpl, err := template.New("invocation").Parse(opts.InvocationTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing invocation template: %w", err)
	}

	// the key is never mutated after this point
	secret := make([]byte, len(opts.Secret))
	copy(secret, opts.Secret)

	svc := &Service{
		Logger:   opts.Logger,
		Signer:   newSigner(opts.Items, secret, opts.Clock),
		Verifier: newVerifier(opts.Items, secret, opts.Window, opts.OriginPolicy, opts.Clock),
	}
	svc.web = &web{
		Logger:         opts.Logger,
		Service:        svc,
		items:          opts.Items,
		baseURL:        opts.BaseURL,
		identityHeader: opts.ClientIdentityHeader,
		invocation:     tmpl,
		shareSigner:    opts.ShareSigner,
		shareTTL:       opts.ShareLinkTTL,
		now:            opts.Clock,
	}
	return svc, nil
}

func (s *Service) AddHandlers(r *mux.Router) {
	s.web.addHandlers(r)
}

// IssueURL returns the URL of the issue endpoint for the item with the given
// ID, rooted at the externally visible base address.
func (s *Service) IssueURL(r *http.Request, id string) (string, error) {
	return s.web.issueURL(r, id)
}
