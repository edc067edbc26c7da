package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken("secret", "org@example.com", "organizer", 15)
    require.NoError(t, err)
    assert.NotEmpty(t, tok.Token)
    assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

    sub, role, err := ParseAccessToken("secret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "org@example.com", sub)
    assert.Equal(t, "organizer", role)
}

func TestParseAccessToken_Rejects(t *testing.T) {
    tok, err := NewAccessToken("secret", "a@example.com", "participant", 15)
    require.NoError(t, err)

    _, _, err = ParseAccessToken("other", tok.Token)
    assert.Error(t, err, "wrong secret")

    expired, err := NewAccessToken("secret", "a@example.com", "participant", -5)
    require.NoError(t, err)
    _, _, err = ParseAccessToken("secret", expired.Token)
    assert.Error(t, err, "expired")

    none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "a@example.com", "role": "organizer"})
    raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
    require.NoError(t, err)
    _, _, err = ParseAccessToken("secret", raw)
    assert.Error(t, err, "alg none")

    _, _, err = ParseAccessToken("secret", "garbage")
    assert.Error(t, err)
}

func TestNewAccessToken_EmptySecret(t *testing.T) {
    _, err := NewAccessToken("", "a@example.com", "participant", 15)
    assert.Error(t, err)
}
