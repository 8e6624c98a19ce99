package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/student-registry/internal/model"
)

func testUser() model.User {
	return model.User{ID: 42, Username: "jdoe", Role: model.RoleStudent, TokenVersion: 3}
}

func TestCodecRoundTrip(t *testing.T) {
	c := NewCodec("test-secret")
	now := time.Now().UTC().Truncate(time.Second)

	raw, err := c.Encode(Claims{
		Subject:      42,
		Role:         model.RoleAdmin,
		TokenVersion: 7,
		Kind:         KindAccess,
		IssuedAt:     now,
		ExpiresAt:    now.Add(AccessTTL),
	})
	require.NoError(t, err)
	require.Len(t, strings.Split(raw, "."), 3)

	cl, err := c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, uint64(42), cl.Subject)
	require.Equal(t, model.RoleAdmin, cl.Role)
	require.Equal(t, uint32(7), cl.TokenVersion)
	require.Equal(t, KindAccess, cl.Kind)
	require.Equal(t, now.Add(AccessTTL), cl.ExpiresAt)
}

func TestCodecRejectsBadSignature(t *testing.T) {
	issue := NewCodec("secret-a")
	verify := NewCodec("secret-b")

	raw, err := issue.Encode(Claims{
		Subject: 1, Role: model.RoleStudent, Kind: KindAccess,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = verify.Decode(raw)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, FailureBadSignature, de.Failure)
}

func TestCodecRejectsTampering(t *testing.T) {
	c := NewCodec("test-secret")
	raw, err := c.Encode(Claims{
		Subject: 1, Role: model.RoleStudent, Kind: KindAccess,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	require.NoError(t, err)

	// Flip a character inside the payload segment.
	parts := strings.Split(raw, ".")
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	parts[1] = string(payload)

	_, err = c.Decode(strings.Join(parts, "."))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.NotEqual(t, FailureExpired, de.Failure)
}

func TestCodecRejectsMalformed(t *testing.T) {
	c := NewCodec("test-secret")
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := c.Decode(raw)
		var de *DecodeError
		require.ErrorAs(t, err, &de, "input %q", raw)
		require.Equal(t, FailureMalformed, de.Failure, "input %q", raw)
	}
}

func TestCodecExpiryIsInclusive(t *testing.T) {
	c := NewCodec("test-secret")
	issued := time.Now().UTC().Truncate(time.Second)
	exp := issued.Add(time.Hour)
	raw, err := c.Encode(Claims{
		Subject: 1, Role: model.RoleStudent, Kind: KindAccess,
		IssuedAt: issued, ExpiresAt: exp,
	})
	require.NoError(t, err)

	// One second before expiry: still valid.
	c.now = func() time.Time { return exp.Add(-time.Second) }
	_, err = c.Decode(raw)
	require.NoError(t, err)

	// At the exact expiry instant: already invalid.
	c.now = func() time.Time { return exp }
	_, err = c.Decode(raw)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, FailureExpired, de.Failure)
}

func TestCodecRejectsExpired(t *testing.T) {
	c := NewCodec("test-secret")
	raw, err := c.Encode(Claims{
		Subject: 1, Role: model.RoleStudent, Kind: KindAccess,
		IssuedAt:  time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = c.Decode(raw)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, FailureExpired, de.Failure)
}
