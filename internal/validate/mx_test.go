package validate

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

type fakeResolver struct {
	calls   int
	records []*net.MX
	errs    []error
}

func (f *fakeResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	return f.records, nil
}

func newTestVerifier(r MXResolver) *EmailVerifier {
	return NewEmailVerifier(r, time.Second, time.Millisecond, nil)
}

func TestValidChecksSyntaxFirst(t *testing.T) {
	r := &fakeResolver{records: []*net.MX{{Host: "mx.example.com"}}}
	v := newTestVerifier(r)
	if v.Valid(context.Background(), "not-an-email") {
		t.Fatal("expected syntax failure")
	}
	if r.calls != 0 {
		t.Fatalf("resolver should not be consulted on syntax failure, got %d calls", r.calls)
	}
}

func TestValidWithMXRecord(t *testing.T) {
	r := &fakeResolver{records: []*net.MX{{Host: "mx.example.com"}}}
	v := newTestVerifier(r)
	if !v.Valid(context.Background(), "user@example.com") {
		t.Fatal("expected valid email")
	}
	if r.calls != 1 {
		t.Fatalf("expected single lookup, got %d", r.calls)
	}
}

func TestDomainHasMXRetriesOnce(t *testing.T) {
	r := &fakeResolver{
		records: []*net.MX{{Host: "mx.example.com"}},
		errs:    []error{errors.New("temporary failure")},
	}
	v := newTestVerifier(r)
	if !v.DomainHasMX(context.Background(), "example.com") {
		t.Fatal("expected success on second attempt")
	}
	if r.calls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", r.calls)
	}
}

func TestDomainHasMXFailsClosed(t *testing.T) {
	r := &fakeResolver{errs: []error{errors.New("nxdomain"), errors.New("nxdomain")}}
	v := newTestVerifier(r)
	if v.DomainHasMX(context.Background(), "nosuch.invalid") {
		t.Fatal("expected failure after both attempts")
	}
	if r.calls != 2 {
		t.Fatalf("expected two attempts, got %d", r.calls)
	}
}

func TestDomainHasMXNoRecords(t *testing.T) {
	r := &fakeResolver{}
	v := newTestVerifier(r)
	if v.DomainHasMX(context.Background(), "example.com") {
		t.Fatal("a domain with zero MX records should fail")
	}
}

func TestDomainHasMXHonorsCancelledContext(t *testing.T) {
	r := &fakeResolver{errs: []error{errors.New("timeout"), nil}, records: []*net.MX{{Host: "mx"}}}
	v := NewEmailVerifier(r, time.Second, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if v.DomainHasMX(ctx, "example.com") {
		t.Fatal("expected failure when context is cancelled before retry")
	}
	if r.calls != 1 {
		t.Fatalf("retry should not run after cancellation, got %d calls", r.calls)
	}
}
