package token

import (
	"context"
	"sync"
	"time"
)

// VersionBumper is the slice of the user store revocation needs: an atomic
// increment of a user's token version. Keeping the dependency this narrow
// lets the revocation state stay storage-agnostic.
type VersionBumper interface {
	BumpTokenVersion(ctx context.Context, userID uint64) error
}

// Revocations is the process-wide revocation state. It tracks individually
// denylisted token strings and delegates version bumps to the user store.
//
// The denylist lives in process memory only: a restart forgives entries that
// have not expired yet. Version bumps are persisted on the user row and
// survive restarts, so mass invalidation is durable while single-token
// revocation is best-effort within one process lifetime. That asymmetry is a
// known property of this design, not an accident.
//
// Construct one instance per process (or per test) and inject it; there is
// no package-level singleton.
type Revocations struct {
	users VersionBumper

	mu     sync.RWMutex
	denied map[string]time.Time // token -> its own expiry

	now func() time.Time
}

func NewRevocations(users VersionBumper) *Revocations {
	return &Revocations{
		users:  users,
		denied: make(map[string]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Deny places a token on the denylist until its natural expiry. Denying the
// same token twice is a no-op. Tokens already past exp are not stored; they
// are dead regardless.
func (r *Revocations) Deny(tok string, exp time.Time) {
	now := r.now()
	if !now.Before(exp) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked(now)
	r.denied[tok] = exp
}

// IsDenied reports whether the token is currently denylisted. An entry whose
// expiry has passed no longer counts; expiry rejection is the codec's job.
func (r *Revocations) IsDenied(tok string) bool {
	r.mu.RLock()
	exp, ok := r.denied[tok]
	r.mu.RUnlock()
	return ok && r.now().Before(exp)
}

// BumpVersion atomically increments the user's token version, invalidating
// every token issued under the previous version.
func (r *Revocations) BumpVersion(ctx context.Context, userID uint64) error {
	return r.users.BumpTokenVersion(ctx, userID)
}

// Len returns the number of live denylist entries.
func (r *Revocations) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	now := r.now()
	for _, exp := range r.denied {
		if now.Before(exp) {
			n++
		}
	}
	return n
}

// purgeLocked drops entries whose tokens have expired on their own. Called
// with the write lock held on every insert, which keeps the map bounded by
// the number of tokens denied within one access-token lifetime.
func (r *Revocations) purgeLocked(now time.Time) {
	for tok, exp := range r.denied {
		if !now.Before(exp) {
			delete(r.denied, tok)
		}
	}
}
