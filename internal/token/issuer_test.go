package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssuePairSharesIdentity(t *testing.T) {
	c := NewCodec("test-secret")
	i := NewIssuer(c)
	u := testUser()

	pair, err := i.IssuePair(u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.NotEqual(t, pair.Access, pair.Refresh)

	access, err := c.Decode(pair.Access)
	require.NoError(t, err)
	refresh, err := c.Decode(pair.Refresh)
	require.NoError(t, err)

	require.Equal(t, KindAccess, access.Kind)
	require.Equal(t, KindRefresh, refresh.Kind)

	// Same subject, role and version at issuance.
	require.Equal(t, u.ID, access.Subject)
	require.Equal(t, u.ID, refresh.Subject)
	require.Equal(t, u.Role, access.Role)
	require.Equal(t, u.Role, refresh.Role)
	require.Equal(t, u.TokenVersion, access.TokenVersion)
	require.Equal(t, u.TokenVersion, refresh.TokenVersion)

	// Short and long lifetimes.
	require.Equal(t, AccessTTL, access.ExpiresAt.Sub(access.IssuedAt))
	require.Equal(t, RefreshTTL, refresh.ExpiresAt.Sub(refresh.IssuedAt))
}

func TestIssueAccessStandalone(t *testing.T) {
	c := NewCodec("test-secret")
	i := NewIssuer(c)
	u := testUser()

	raw, exp, err := i.IssueAccess(u)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC().Add(AccessTTL), exp, 2*time.Second)

	cl, err := c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindAccess, cl.Kind)
	require.Equal(t, u.ID, cl.Subject)
}
