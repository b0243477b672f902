package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chngmn/Quizly-server/internal/config"
)

func newKakaoTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad form: %v", err)
		}
		if r.Form.Get("grant_type") != "authorization_code" || r.Form.Get("client_id") != "client" {
			t.Errorf("unexpected token form: %v", r.Form)
		}
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access",
			"refresh_token": "refresh",
			"token_type":    "bearer",
			"expires_in":    21599,
		})
	})

	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 4123456789, "properties": {"nickname": "카카오", "profile_image": "http://img/p.jpg"}}`))
	})

	mux.HandleFunc("/v1/user/unlink", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "KakaoAK admin" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		r.ParseForm()
		if r.Form.Get("target_id_type") != "user_id" || r.Form.Get("target_id") != "4123456789" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 4123456789}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newKakaoTestService(srvURL, adminKey string) *KakaoOAuthService {
	return NewKakaoOAuthService(&config.KakaoConfig{
		ClientID:    "client",
		RedirectURI: "http://localhost/callback",
		AdminKey:    adminKey,
		AuthURL:     srvURL + "/oauth/authorize",
		TokenURL:    srvURL + "/oauth/token",
		APIBaseURL:  srvURL,
		Timeout:     5 * time.Second,
	})
}

func TestKakaoExchangeAndProfile(t *testing.T) {
	srv := newKakaoTestServer(t)
	s := newKakaoTestService(srv.URL, "admin")
	ctx := context.Background()

	tokens, err := s.Exchange(ctx, "good-code")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if tokens.AccessToken != "access" || tokens.RefreshToken != "refresh" {
		t.Errorf("unexpected tokens: %+v", tokens)
	}

	profile, err := s.FetchProfile(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}
	if profile.ID != "4123456789" || profile.Nickname != "카카오" || profile.ProfileImage != "http://img/p.jpg" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestKakaoFailures(t *testing.T) {
	srv := newKakaoTestServer(t)
	ctx := context.Background()

	if _, err := newKakaoTestService(srv.URL, "admin").Exchange(ctx, "bad-code"); err == nil {
		t.Errorf("expected exchange with bad code to fail")
	}
	if _, err := newKakaoTestService(srv.URL, "admin").FetchProfile(ctx, "wrong"); err == nil {
		t.Errorf("expected profile fetch with bad token to fail")
	}
	if err := newKakaoTestService(srv.URL, "").Unlink(ctx, "4123456789"); err == nil {
		t.Errorf("expected unlink without admin key to fail")
	}
	if err := newKakaoTestService(srv.URL, "wrong").Unlink(ctx, "4123456789"); err == nil {
		t.Errorf("expected unlink with wrong admin key to fail")
	}
}

func TestKakaoUnlink(t *testing.T) {
	srv := newKakaoTestServer(t)
	if err := newKakaoTestService(srv.URL, "admin").Unlink(context.Background(), "4123456789"); err != nil {
		t.Errorf("Unlink failed: %v", err)
	}
}
