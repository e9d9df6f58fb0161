package daemon

import (
	"errors"
	"time"

	"github.com/leg100/rawlink/internal"
	"github.com/leg100/rawlink/internal/link"
	"github.com/leg100/rawlink/internal/logr"
	"github.com/leg100/rawlink/internal/storage"
)

const (
	// MinSecretLength is the minimum size of the secret in bytes.
	MinSecretLength = 16

	DefaultAddress       = ":10000"
	DefaultMaxUploadSize = 1 << 20
)

var (
	ErrMissingSecret  = &internal.MissingParameterError{Parameter: "secret"}
	ErrSecretTooShort = errors.New("secret must be at least 16 bytes in size")
)

// Config configures the rawlinkd daemon. Descriptions of each field can be
// found in the flag definitions in ./cmd/rawlinkd
type Config struct {
	Secret               Secret
	FreshnessWindow      time.Duration
	ClientIdentityPrefix string
	ClientIdentityHeader string
	BaseURL              internal.WebURL
	Address              string
	Storage              storage.Config
	MaxUploadSize        int64
	ShareLinkTTL         time.Duration
	InvocationTemplate   string
	SSL                  bool
	CertFile, KeyFile    string
	EnableRequestLogging bool
	LogConfig            logr.Config
}

// Secret is the key for signing links. It is never printed.
type Secret []byte

func (s *Secret) Set(text string) error {
	*s = Secret(text)
	return nil
}

func (s *Secret) String() string { return "" }

func (s *Secret) Type() string { return "string" }

// NewConfig constructs a rawlinkd configuration with defaults.
func NewConfig() Config {
	return Config{
		FreshnessWindow:      link.DefaultWindow,
		ClientIdentityPrefix: link.DefaultClientIdentityPrefix,
		ClientIdentityHeader: link.DefaultClientIdentityHeader,
		Address:              DefaultAddress,
		Storage: storage.Config{
			Backend: storage.DefaultBackend,
			Path:    storage.DefaultDataPath,
		},
		MaxUploadSize:      DefaultMaxUploadSize,
		InvocationTemplate: link.DefaultInvocationTemplate,
	}
}

func (cfg *Config) Valid() error {
	if len(cfg.Secret) == 0 {
		return ErrMissingSecret
	}
	if len(cfg.Secret) < MinSecretLength {
		return ErrSecretTooShort
	}
	if cfg.FreshnessWindow < 0 {
		return internal.InvalidParameterError("freshness window cannot be negative")
	}
	if cfg.ShareLinkTTL < 0 {
		return internal.InvalidParameterError("share link TTL cannot be negative")
	}
	return nil
}
