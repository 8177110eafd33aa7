// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/parkspot/parkspot/internal/config"
	"github.com/parkspot/parkspot/internal/token"
	"github.com/parkspot/parkspot/pkg/errutil"
)

var tracer = otel.Tracer("parkspot/auth")

// TokenCodec issues and validates bearer tokens. *token.Codec satisfies it.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
	Validate(raw string) (*token.Claims, error)
}

// Service provides registration and authentication.
type Service struct {
	directory UserDirectory
	hasher    SecretHasher
	tokens    TokenCodec
	validator *inputValidator
	allowList []glob.Glob
	tokenTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time

	// dummyHash is verified against when the identity is unknown so that
	// both failure paths pay for one hash verification.
	dummyHash string
}

type serviceOptions struct {
	logger    *slog.Logger
	allowList []string
	tokenTTL  time.Duration
	now       func() time.Time
}

// Option configures a Service.
type Option func(*serviceOptions)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) { o.logger = logger }
}

// WithRegistrationAllowList restricts Register to identity keys matching at
// least one glob pattern, e.g. "*@example.com". An empty list allows all.
func WithRegistrationAllowList(patterns ...string) Option {
	return func(o *serviceOptions) { o.allowList = append(o.allowList, patterns...) }
}

// WithTokenTTL sets the lifetime of tokens issued by Login. Zero leaves the
// codec default in place.
func WithTokenTTL(ttl time.Duration) Option {
	return func(o *serviceOptions) { o.tokenTTL = ttl }
}

// WithClock sets the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// NewService creates a Service. It hashes a random secret once so the
// unknown-identity path verifies against a hash of the active scheme.
func NewService(directory UserDirectory, hasher SecretHasher, tokens TokenCodec, opts ...Option) (*Service, error) {
	if directory == nil {
		return nil, oops.Errorf("user directory is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("secret hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token codec is required")
	}

	o := serviceOptions{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		return nil, oops.Errorf("logger cannot be nil")
	}

	allowList := make([]glob.Glob, 0, len(o.allowList))
	for _, pattern := range o.allowList {
		g, err := glob.Compile(NormalizeIdentityKey(pattern))
		if err != nil {
			return nil, oops.Code(config.CodeInvalid).
				With("pattern", pattern).
				Wrap(fmt.Errorf("%w: invalid registration pattern: %s", config.ErrConfiguration, err.Error()))
		}
		allowList = append(allowList, g)
	}

	dummyHash, err := hasher.Hash(context.Background(), rand.Text())
	if err != nil {
		return nil, oops.With("operation", "compute dummy hash").Wrap(err)
	}

	return &Service{
		directory: directory,
		hasher:    hasher,
		tokens:    tokens,
		validator: newInputValidator(),
		allowList: allowList,
		tokenTTL:  o.tokenTTL,
		logger:    o.logger,
		now:       o.now,
		dummyHash: dummyHash,
	}, nil
}

// Register creates a new credential. Duplicates are detected before any
// hashing is done.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (_ *Credential, err error) {
	ctx, span := tracer.Start(ctx, "auth.register")
	defer func() { endSpan(span, err) }()
	defer func() { recordOperation(opRegister, err) }()

	key := NormalizeIdentityKey(req.IdentityKey)
	input := registerInput{IdentityKey: key, Secret: req.Secret, Name: trimName(req.Name)}
	if err := s.validator.validate(input); err != nil {
		return nil, err
	}
	if !s.allowed(key) {
		return nil, oops.Code(CodeIdentityNotAllowed).
			With("identity_key", key).
			Public("email is not allowed to register").
			Wrap(fmt.Errorf("%w: identity is not allowed to register", ErrValidation))
	}

	_, err = s.directory.FindByIdentityKey(ctx, key)
	switch {
	case err == nil:
		return nil, duplicateIdentity(key)
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code(CodeRegisterFailed).
			With("operation", "find identity").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(ctx, req.Secret)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, oops.Code(CodeRegisterFailed).
			With("operation", "hash secret").
			Wrap(err)
	}

	cred := &Credential{
		ID:          ulid.Make(),
		IdentityKey: key,
		SecretHash:  hash,
		Profile:     Profile{Name: input.Name},
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.directory.Insert(ctx, cred); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return nil, duplicateIdentity(key)
		}
		return nil, oops.Code(CodeRegisterFailed).
			With("operation", "insert credential").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "credential registered", "id", cred.ID.String())
	return cred, nil
}

// Authenticate verifies secret for identityKey. Unknown identities and wrong
// secrets produce the same error.
func (s *Service) Authenticate(ctx context.Context, identityKey, secret string) (_ *Identity, err error) {
	ctx, span := tracer.Start(ctx, "auth.authenticate")
	defer func() { endSpan(span, err) }()
	defer func() { recordOperation(opAuthenticate, err) }()

	return s.authenticate(ctx, identityKey, secret)
}

func (s *Service) authenticate(ctx context.Context, identityKey, secret string) (*Identity, error) {
	key := NormalizeIdentityKey(identityKey)

	cred, lookupErr := s.directory.FindByIdentityKey(ctx, key)
	if lookupErr != nil && !errors.Is(lookupErr, ErrNotFound) {
		return nil, oops.Code(CodeLoginFailed).
			With("operation", "find identity").
			Wrap(lookupErr)
	}

	targetHash := s.dummyHash
	if cred != nil && lookupErr == nil {
		targetHash = cred.SecretHash
	}

	valid, verifyErr := s.hasher.Verify(ctx, secret, targetHash)
	if lookupErr != nil {
		return nil, invalidCredentials()
	}
	if verifyErr != nil {
		if errors.Is(verifyErr, ErrValidation) {
			// A stored hash we cannot parse is an operator problem, but the
			// caller still only learns that the credentials were rejected.
			errutil.LogErrorContext(ctx, s.logger, slog.LevelError, "stored secret hash is unreadable", verifyErr)
			return nil, invalidCredentials()
		}
		return nil, oops.Code(CodeLoginFailed).
			With("operation", "verify secret").
			Wrap(verifyErr)
	}
	if !valid {
		return nil, invalidCredentials()
	}

	return cred.Identity(), nil
}

// Login authenticates and issues a bearer token.
func (s *Service) Login(ctx context.Context, identityKey, secret string) (_ *Identity, _ *IssuedToken, err error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer func() { endSpan(span, err) }()
	defer func() { recordOperation(opLogin, err) }()

	identity, err := s.authenticate(ctx, identityKey, secret)
	if err != nil {
		return nil, nil, err
	}

	raw, expiresAt, err := s.tokens.Issue(identity.IdentityKey, s.tokenTTL)
	if err != nil {
		return nil, nil, oops.Code(CodeLoginFailed).
			With("operation", "issue token").
			Wrap(err)
	}

	return identity, &IssuedToken{
		AccessToken: raw,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

// ResolveIdentity validates a bearer token and reloads its subject. Every
// token failure, and a subject that no longer exists, is ErrUnauthorized;
// the specific reason is only logged.
func (s *Service) ResolveIdentity(ctx context.Context, raw string) (_ *Identity, err error) {
	ctx, span := tracer.Start(ctx, "auth.resolve_identity")
	defer func() { endSpan(span, err) }()
	defer func() { recordOperation(opResolve, err) }()

	claims, err := s.tokens.Validate(raw)
	if err != nil {
		span.SetAttributes(attribute.String("token.outcome", token.Outcome(err)))
		s.logger.DebugContext(ctx, "bearer token rejected",
			"outcome", token.Outcome(err),
			"code", errutil.Code(err))
		return nil, unauthorized()
	}

	cred, err := s.directory.FindByIdentityKey(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.DebugContext(ctx, "bearer token subject no longer exists")
			return nil, unauthorized()
		}
		return nil, oops.Code(CodeResolveFailed).
			With("operation", "find identity").
			Wrap(err)
	}

	return cred.Identity(), nil
}

func (s *Service) allowed(key string) bool {
	if len(s.allowList) == 0 {
		return true
	}
	for _, g := range s.allowList {
		if g.Match(key) {
			return true
		}
	}
	return false
}

func invalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Wrap(ErrAuthenticationFailed)
}

func unauthorized() error {
	return oops.Code(CodeUnauthorized).Wrap(ErrUnauthorized)
}

func duplicateIdentity(key string) error {
	return oops.Code(CodeDuplicateIdentity).
		With("identity_key", key).
		Public("Email already registered").
		Wrap(ErrDuplicateIdentity)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errutil.Code(err))
	}
	span.End()
}
