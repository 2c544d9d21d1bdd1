package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranscribeJoinsSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("language"); got != "pt" {
			t.Errorf("language: %q", got)
		}
		if got := r.FormValue("beam_size"); got != "5" {
			t.Errorf("beam_size: %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"ignored","segments":[{"text":"  essa calça "},{"text":" combina?  "},{"text":"   "}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	text, err := c.Transcribe(context.Background(), []byte("riff-data"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "essa calça combina?" {
		t.Errorf("joined text: %q", text)
	}
}

func TestTranscribeFallsBackToTopLevelText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":" sem segmentos "}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	text, err := c.Transcribe(context.Background(), []byte("riff-data"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "sem segmentos" {
		t.Errorf("text: %q", text)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"})

	text, err := c.Transcribe(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty audio should not error: %v", err)
	}
	if text != "" {
		t.Errorf("text: %q", text)
	}
}

func TestTranscribeServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	if _, err := c.Transcribe(context.Background(), []byte("riff-data")); err == nil {
		t.Fatal("expected an error on 500")
	}
}

func TestTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":{"message":"invalid audio"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	if _, err := c.Transcribe(context.Background(), []byte("riff-data")); err == nil {
		t.Fatal("expected an error from the error body")
	}
}

func TestTranscribeSendsAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization: %q", got)
		}
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})

	if _, err := c.Transcribe(context.Background(), []byte("riff-data")); err != nil {
		t.Fatalf("transcribe: %v", err)
	}
}
