package token

import (
	"time"

	"github.com/iliyamo/student-registry/internal/model"
)

// Token lifetimes are fixed: access tokens live minutes, refresh tokens days.
const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// Pair is a freshly issued access/refresh token pair. Both tokens embed the
// same subject, role and token version but are independently verifiable and
// independently revocable.
type Pair struct {
	Access         string
	AccessExpires  time.Time
	Refresh        string
	RefreshExpires time.Time
}

// Issuer mints signed tokens for authenticated users.
type Issuer struct {
	codec *Codec
	now   func() time.Time
}

func NewIssuer(c *Codec) *Issuer {
	return &Issuer{codec: c, now: func() time.Time { return time.Now().UTC() }}
}

// IssuePair issues an access and a refresh token carrying the user's current
// token version.
func (i *Issuer) IssuePair(u model.User) (Pair, error) {
	now := i.now()
	access, err := i.codec.Encode(claimsFor(u, KindAccess, now, AccessTTL))
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.codec.Encode(claimsFor(u, KindRefresh, now, RefreshTTL))
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Access:         access,
		AccessExpires:  now.Add(AccessTTL),
		Refresh:        refresh,
		RefreshExpires: now.Add(RefreshTTL),
	}, nil
}

// IssueAccess issues a standalone access token. The refresh flow uses it to
// mint a new access token without touching the presented refresh token.
func (i *Issuer) IssueAccess(u model.User) (string, time.Time, error) {
	now := i.now()
	access, err := i.codec.Encode(claimsFor(u, KindAccess, now, AccessTTL))
	if err != nil {
		return "", time.Time{}, err
	}
	return access, now.Add(AccessTTL), nil
}

func claimsFor(u model.User, kind Kind, now time.Time, ttl time.Duration) Claims {
	return Claims{
		Subject:      u.ID,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		Kind:         kind,
		IssuedAt:     now,
		ExpiresAt:    now.Add(ttl),
	}
}
