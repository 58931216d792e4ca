// Package verification orchestrates profile verification runs: configuration
// load, credential retrieval, matching, and observability.
package verification

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fieldgate/internal/verification/config"
	"fieldgate/internal/verification/matcher"
	"fieldgate/internal/verification/metrics"
	"fieldgate/internal/verification/models"
	id "fieldgate/pkg/domain"
	dErrors "fieldgate/pkg/domain-errors"
	"fieldgate/pkg/platform/audit"
	"fieldgate/pkg/requestcontext"
)

// CredentialSource supplies the user's parsed credentials. Decryption and
// wallet access happen upstream; the core only consumes decoded JSON.
type CredentialSource interface {
	CredentialsForUser(ctx context.Context, userID id.UserID) ([]models.Credential, error)
}

// CredentialStore extends the source with a replace operation so a wallet
// sync can refresh a user's credential set ahead of verification.
type CredentialStore interface {
	CredentialSource
	ReplaceForUser(ctx context.Context, userID id.UserID, creds []models.Credential) error
}

// Service runs profile verification end to end.
type Service struct {
	loader    *config.Loader
	source    CredentialStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
	tracer    trace.Tracer
}

type serviceConfig struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
}

// Option customizes optional service collaborators.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.publisher = publisher }
}

// NewService wires the verification pipeline.
func NewService(loader *config.Loader, source CredentialStore, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		loader:    loader,
		source:    source,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		publisher: cfg.publisher,
		tracer:    otel.Tracer("fieldgate/verification"),
	}
}

// VerifyProfile evaluates every requested attribute against the user's
// credentials. Config problems abort the run; per-document misses never do.
func (s *Service) VerifyProfile(ctx context.Context, userID id.UserID, profile []models.ProfileAttribute) ([]models.MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "VerifyProfile",
		trace.WithAttributes(attribute.Int("attributes", len(profile))))
	defer span.End()

	start := time.Now()

	cfg, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "verification config unavailable",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	m, err := matcher.New(cfg)
	if err != nil {
		return nil, err
	}

	vcs, err := s.source.CredentialsForUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user credentials")
	}

	results, err := m.Match(ctx, profile, vcs)
	if err != nil {
		return nil, err
	}

	verified := 0
	for _, result := range results {
		if result.Verified {
			verified++
		}
	}
	span.SetAttributes(attribute.Int("verified", verified))

	if s.metrics != nil {
		s.metrics.ObserveRun(start, verified, len(results)-verified)
	}
	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Subject:   userID.String(),
		Action:    audit.EventProfileVerified,
		Detail:    strconv.Itoa(verified) + "/" + strconv.Itoa(len(results)) + " attributes verified",
		RequestID: requestcontext.RequestID(ctx),
	})
	return results, nil
}

// ReplaceCredentials swaps out the user's stored credential set. The caller
// supplies already-parsed credentials; this service never touches the wallet.
func (s *Service) ReplaceCredentials(ctx context.Context, userID id.UserID, creds []models.Credential) error {
	for i, cred := range creds {
		if cred.DocType == "" || cred.VCType == "" {
			return dErrors.Newf(dErrors.CodeBadRequest, "credential %d is missing vc_type or doc_type", i)
		}
	}
	if err := s.source.ReplaceForUser(ctx, userID, creds); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store credentials")
	}
	audit.Emit(ctx, s.publisher, s.logger, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Subject:   userID.String(),
		Action:    audit.EventCredentialsSynced,
		Detail:    strconv.Itoa(len(creds)) + " credentials stored",
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}
