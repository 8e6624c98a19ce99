// Package token implements the credential lifecycle: signing and decoding
// claims, issuing access/refresh pairs, tracking revocations and verifying
// presented tokens against the current account state.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/student-registry/internal/model"
)

// Kind distinguishes the two token flavors. An access token presented to the
// refresh endpoint (or a refresh token presented as a bearer) fails
// verification even though both are signed with the same secret.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the decoded payload of a signed token.
type Claims struct {
	Subject      uint64
	Role         model.Role
	TokenVersion uint32
	Kind         Kind
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// DecodeFailure classifies why a token string could not be decoded. The
// classification is internal; every failure surfaces to clients as the same
// 401.
type DecodeFailure int

const (
	FailureMalformed DecodeFailure = iota + 1
	FailureBadSignature
	FailureExpired
)

func (f DecodeFailure) String() string {
	switch f {
	case FailureMalformed:
		return "malformed"
	case FailureBadSignature:
		return "bad signature"
	case FailureExpired:
		return "expired"
	}
	return "unknown"
}

// DecodeError carries the failure classification alongside the parser cause.
type DecodeError struct {
	Failure DecodeFailure
	cause   error
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("decode token: %s: %v", e.Failure, e.cause)
	}
	return "decode token: " + e.Failure.String()
}

func (e *DecodeError) Unwrap() error { return e.cause }

// Codec signs and decodes token claims with a single HS256 secret. Both
// operations are pure CPU work; the codec holds no mutable state and is safe
// for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec over the given signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: func() time.Time { return time.Now().UTC() }}
}

// Encode signs the claims into the compact three-segment wire form.
func (c *Codec) Encode(cl Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  cl.Subject,
		"role": string(cl.Role),
		"tkv":  cl.TokenVersion,
		"typ":  string(cl.Kind),
		"iat":  cl.IssuedAt.Unix(),
		"exp":  cl.ExpiresAt.Unix(),
	})
	return t.SignedString(c.secret)
}

// Decode parses and verifies a token string. On failure it returns a
// *DecodeError classifying the cause as malformed, bad signature or expired.
// Expiry is evaluated against the wall clock at call time and the boundary
// is inclusive: a token is rejected from the instant its exp is reached.
func (c *Codec) Decode(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, &DecodeError{Failure: classify(err), cause: err}
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, &DecodeError{Failure: FailureMalformed}
	}

	cl, err := claimsFromMap(mc)
	if err != nil {
		return Claims{}, &DecodeError{Failure: FailureMalformed, cause: err}
	}
	// jwt.Parse treats a token as live while now < exp; re-check here so the
	// exact expiry instant is already invalid.
	if !c.now().Before(cl.ExpiresAt) {
		return Claims{}, &DecodeError{Failure: FailureExpired}
	}
	return cl, nil
}

func classify(err error) DecodeFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return FailureBadSignature
	default:
		return FailureMalformed
	}
}

func claimsFromMap(mc jwt.MapClaims) (Claims, error) {
	sub, ok := mc["sub"].(float64)
	if !ok || sub <= 0 {
		return Claims{}, errors.New("missing sub claim")
	}
	roleStr, _ := mc["role"].(string)
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return Claims{}, errors.New("unknown role claim")
	}
	tkv, ok := mc["tkv"].(float64)
	if !ok || tkv < 0 {
		return Claims{}, errors.New("missing tkv claim")
	}
	typ, _ := mc["typ"].(string)
	kind := Kind(typ)
	if kind != KindAccess && kind != KindRefresh {
		return Claims{}, errors.New("unknown typ claim")
	}
	iat, _ := mc["iat"].(float64)
	exp, ok := mc["exp"].(float64)
	if !ok {
		return Claims{}, errors.New("missing exp claim")
	}
	return Claims{
		Subject:      uint64(sub),
		Role:         role,
		TokenVersion: uint32(tkv),
		Kind:         kind,
		IssuedAt:     time.Unix(int64(iat), 0).UTC(),
		ExpiresAt:    time.Unix(int64(exp), 0).UTC(),
	}, nil
}
