package oidc

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeJWT(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"none"}`)) + "." + enc.EncodeToString([]byte(payload)) + ".sig"
}

func TestInsecureVerifier(t *testing.T) {
	v := NewInsecureVerifier()

	tok, err := v.Verify(context.Background(), fakeJWT(`{"sub":"user_2abc","email":"ada@example.com"}`))
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, "user_2abc", claims["sub"])
	assert.Equal(t, "ada@example.com", claims["email"])

	var typed struct {
		Sub string `json:"sub"`
	}
	require.NoError(t, tok.Claims(&typed))
	assert.Equal(t, "user_2abc", typed.Sub)
}

func TestInsecureVerifierRejectsGarbage(t *testing.T) {
	v := NewInsecureVerifier()
	for _, raw := range []string{"", "abc", "a.!!!.c", "a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c"} {
		_, err := v.Verify(context.Background(), raw)
		assert.Error(t, err, raw)
	}
}

func TestNewVerifierDiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewVerifier(context.Background(), srv.URL, "client")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover OIDC provider")
}
