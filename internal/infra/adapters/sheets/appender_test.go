//go:build !integration

package sheets

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"spectux-billing/internal/domain"
)

func testPrivateKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func TestAppender_AppendRow(t *testing.T) {
	var tokenCalls int64
	var gotAppend map[string]any
	var gotAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&tokenCalls, 1)
		if r.FormValue("grant_type") != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("unexpected grant type %s", r.FormValue("grant_type"))
		}
		if r.FormValue("assertion") == "" {
			t.Error("expected a signed assertion")
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "ya29.test", "expires_in": 3600})
	})
	mux.HandleFunc("/spreadsheets/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotAppend)
		json.NewEncoder(w).Encode(map[string]any{"updates": map[string]any{"updatedRows": 1}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	a, err := NewAppender("svc@project.iam.gserviceaccount.com", testPrivateKeyPEM(t),
		"sheet123", "Sheet1!A:Z", srv.URL+"/token", srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("mints a token and appends the row", func(t *testing.T) {
		err := a.AppendRow(context.Background(), []string{"2026-09-01T00:00:00Z", "parent@example.com", "Pat"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotAuth != "Bearer ya29.test" {
			t.Errorf("unexpected auth header %q", gotAuth)
		}
		values := gotAppend["values"].([]any)
		row := values[0].([]any)
		if len(row) != 3 || row[1] != "parent@example.com" {
			t.Errorf("unexpected row %v", row)
		}
	})

	t.Run("reuses the cached token on subsequent appends", func(t *testing.T) {
		before := atomic.LoadInt64(&tokenCalls)
		if err := a.AppendRow(context.Background(), []string{"x"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if atomic.LoadInt64(&tokenCalls) != before {
			t.Error("token should have been served from cache")
		}
	})
}

func TestAppender_Errors(t *testing.T) {
	t.Run("token exchange failure is an upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		a, err := NewAppender("svc@project.iam.gserviceaccount.com", testPrivateKeyPEM(t),
			"sheet123", "", srv.URL+"/token", srv.URL)
		if err != nil {
			t.Fatal(err)
		}
		if err := a.AppendRow(context.Background(), []string{"x"}); !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
	})

	t.Run("rejects an unparseable key at construction", func(t *testing.T) {
		_, err := NewAppender("svc@project.iam.gserviceaccount.com", "not a pem key", "sheet123", "", "", "")
		if err == nil {
			t.Fatal("expected an error for a malformed private key")
		}
	})
}
