package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-32-bytes-should-be-long-enough"

func seg(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func TestMintAndVerify(t *testing.T) {
	raw, err := Mint(secret, "user-123", "Test User", "test@example.com", 2*time.Minute)
	require.NoError(t, err)

	tok, err := NewHMACVerifier(secret).Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, "user-123", claims["sub"])
	assert.Equal(t, "test@example.com", claims["email"])
	assert.Equal(t, "Test User", claims["name"])
}

func TestMintRejectsEmptyInputs(t *testing.T) {
	_, err := Mint("", "u", "", "", time.Minute)
	assert.Error(t, err)
	_, err = Mint(secret, "", "", "", time.Minute)
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	raw, err := Mint(secret, "u2", "X", "x@x", -time.Minute)
	require.NoError(t, err)
	_, err = NewHMACVerifier(secret).Verify(context.Background(), raw)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = NewHMACVerifier(secret).Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestVerifyRequiresSubject(t *testing.T) {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Minute).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = NewHMACVerifier(secret).Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestVerifyWrongSecretFails(t *testing.T) {
	raw, err := Mint("secret-one-32-bytes-xxxxxxxxxxxxxxxx", "u3", "Bob", "bob@example.com", 2*time.Minute)
	require.NoError(t, err)
	_, err = NewHMACVerifier("different-secret-xxxxxxxxxxxxxxxx").Verify(context.Background(), raw)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	_, err := NewHMACVerifier(secret).Verify(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}

// unsigned tokens must never pass
func TestVerifyAlgNoneRejected(t *testing.T) {
	payload := `{"sub":"u-none","exp":9999999999}`
	tok := seg([]byte(`{"alg":"none"}`)) + "." + seg([]byte(payload)) + "."
	_, err := NewHMACVerifier(secret).Verify(context.Background(), tok)
	assert.Error(t, err)
}

func TestVerifyOtherHMACAlgRejected(t *testing.T) {
	claims := jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Minute).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = NewHMACVerifier(secret).Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestVerifyTamperedPayload(t *testing.T) {
	raw, err := Mint(secret, "user-t", "Tamper", "t@example.com", 5*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = seg([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))

	_, err = NewHMACVerifier(secret).Verify(context.Background(), strings.Join(parts, "."))
	assert.Error(t, err)
}
