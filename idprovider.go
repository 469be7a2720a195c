package nodebalance

import (
	"crypto/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDProvider hands out node identifiers. Every call must return a fresh,
// unique token.
type IDProvider interface {
	ID() string
}

// IDProviderFunc adapts a plain function to IDProvider.
type IDProviderFunc func() string

func (f IDProviderFunc) ID() string {
	return f()
}

// UUIDProvider returns random (version 4) UUIDs.
type UUIDProvider struct{}

func (UUIDProvider) ID() string {
	return uuid.NewString()
}

// ULIDProvider returns ULIDs, which sort by creation time. Identifiers
// created by one provider within the same millisecond are still strictly
// increasing. The zero value is ready to use.
type ULIDProvider struct {
	mtx     sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDProvider() *ULIDProvider {
	return &ULIDProvider{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (p *ULIDProvider) ID() string {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.entropy == nil {
		p.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	return ulid.MustNew(ulid.Now(), p.entropy).String()
}
