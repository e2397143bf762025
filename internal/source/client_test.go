// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchReturnsBody(t *testing.T) {
	const body = "#EXTM3U\n#EXTINF:-1,Test\nhttp://x/1\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	got, err := New(srv.URL, time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got != body {
		t.Fatalf("body = %q, want %q", got, body)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Fetch(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want %d", se.Code, http.StatusForbidden)
	}
}

func TestFetchRespectsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(srv.URL, time.Second).Fetch(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://host/playlist.m3u", false},
		{"https://host/playlist.m3u", false},
		{"ftp://host/playlist.m3u", true},
		{"http://", true},
		{"://bad", true},
	}
	for _, tc := range tests {
		err := New(tc.url, 0).Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("Validate(%q) err=%v, wantErr=%v", tc.url, err, tc.wantErr)
		}
	}
}
