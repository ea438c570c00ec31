package validate

import (
	"context"
	"net"
	"time"

	"github.com/medichat/medichat-platform/pkg/logging"
)

// MXResolver resolves mail-exchange records. net.DefaultResolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// EmailVerifier checks address syntax and that the domain can receive mail.
// The MX lookup is the one validation with externally-variable latency, so it
// is bounded by a timeout and retried once after a fixed delay.
type EmailVerifier struct {
	resolver   MXResolver
	timeout    time.Duration
	retryDelay time.Duration
	logger     *logging.Logger

	// Observe, when set, receives the duration of every MX lookup in seconds.
	Observe func(seconds float64)
}

// NewEmailVerifier creates a verifier backed by the given resolver.
func NewEmailVerifier(resolver MXResolver, timeout, retryDelay time.Duration, logger *logging.Logger) *EmailVerifier {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailVerifier{
		resolver:   resolver,
		timeout:    timeout,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Valid reports whether email is well-formed and its domain has at least one
// MX record. Resolution failure on both attempts is treated as invalid.
func (v *EmailVerifier) Valid(ctx context.Context, email string) bool {
	if !EmailSyntax(email) {
		return false
	}
	return v.DomainHasMX(ctx, Domain(email))
}

// DomainHasMX resolves MX records for domain, retrying once on failure.
func (v *EmailVerifier) DomainHasMX(ctx context.Context, domain string) bool {
	if v.lookup(ctx, domain) {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(v.retryDelay):
	}
	v.logger.Debug("retrying MX lookup", "domain", domain)
	return v.lookup(ctx, domain)
}

func (v *EmailVerifier) lookup(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := time.Now()
	records, err := v.resolver.LookupMX(ctx, domain)
	if v.Observe != nil {
		v.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		v.logger.Debug("MX lookup failed", "domain", domain, "error", err)
		return false
	}
	return len(records) > 0
}
