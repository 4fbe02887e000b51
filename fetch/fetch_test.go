package fetch

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/visionhost/predict/errors"
)

func TestFetchReturnsBody(t *testing.T) {
	want := bytes.Repeat([]byte{0x89, 0x50}, 512)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(want)
	}))
	defer srv.Close()

	got, err := NewClient(5 * time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("fetched %d bytes, want %d identical bytes", len(got), len(want))
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(5 * time.Second).Fetch(context.Background(), srv.URL)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFetch, Kind: errors.KindNetwork}) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestFetchRejectsScheme(t *testing.T) {
	_, err := NewClient(time.Second).Fetch(context.Background(), "file:///etc/passwd")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFetch, Kind: errors.KindNetwork}) {
		t.Fatalf("err = %v, want network error for non-http scheme", err)
	}
}

func TestFetchSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{1}, 4096))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	c.maxBytes = 1024

	_, err := c.Fetch(context.Background(), srv.URL)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFetch, Kind: errors.KindNetwork}) {
		t.Fatalf("err = %v, want network error for oversized body", err)
	}
}

func TestFetchHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := NewClient(0).Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected context deadline error, got nil")
	}
}
