package sfdc

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) ([]byte, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return pemBytes, key
}

func TestSessionFromJWT(t *testing.T) {
	pemBytes, key := testKeyPEM(t)

	var gotGrant string
	var gotClaims jwt.MapClaims
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/oauth2/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotGrant = r.FormValue("grant_type")

		token, err := jwt.Parse(r.FormValue("assertion"), func(*jwt.Token) (interface{}, error) {
			return &key.PublicKey, nil
		})
		if assert.NoError(t, err) {
			gotClaims, _ = token.Claims.(jwt.MapClaims)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"00Dxx!granted","instance_url":"https://example.my.salesforce.com/"}`)
	}))
	defer server.Close()

	session, err := SessionFromJWT(context.Background(), JWTConfig{
		ClientID:   "3MVG9consumer",
		Username:   "sync@example.com",
		LoginURL:   server.URL,
		PrivateKey: pemBytes,
	})
	require.NoError(t, err)

	assert.Equal(t, "00Dxx!granted", session.AccessToken)
	assert.Equal(t, "https://example.my.salesforce.com", session.InstanceURL)
	assert.Equal(t, "sync@example.com", session.Username)

	assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", gotGrant)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "3MVG9consumer", gotClaims["iss"])
	assert.Equal(t, "sync@example.com", gotClaims["sub"])
	assert.Equal(t, server.URL, gotClaims["aud"])
}

func TestSessionFromJWTRejected(t *testing.T) {
	pemBytes, _ := testKeyPEM(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant","error_description":"user hasn't approved this consumer"}`)
	}))
	defer server.Close()

	_, err := SessionFromJWT(context.Background(), JWTConfig{
		ClientID:   "3MVG9consumer",
		Username:   "sync@example.com",
		LoginURL:   server.URL,
		PrivateKey: pemBytes,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Contains(t, err.Error(), "approved this consumer")
}

func TestSessionFromJWTBadKey(t *testing.T) {
	_, err := SessionFromJWT(context.Background(), JWTConfig{
		ClientID:   "3MVG9consumer",
		Username:   "sync@example.com",
		LoginURL:   "https://login.salesforce.com",
		PrivateKey: []byte("not a pem key"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private key")
}

func TestSessionFromJWTMissingConfig(t *testing.T) {
	_, err := SessionFromJWT(context.Background(), JWTConfig{Username: "sync@example.com"})
	assert.Error(t, err)
}
