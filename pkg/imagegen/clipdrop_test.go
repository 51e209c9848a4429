package imagegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateFromPrompt(t *testing.T) {
	var gotKey, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-image/v1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("bad multipart form: %v", err)
		}
		gotPrompt = r.FormValue("prompt")
		w.Write([]byte("fake-png-bytes"))
	}))
	defer server.Close()

	client := NewClipdropClient("test-key").WithBaseURL(server.URL)
	data, err := client.GenerateFromPrompt(context.Background(), "a cat wearing sunglasses")
	if err != nil {
		t.Fatalf("GenerateFromPrompt failed: %v", err)
	}

	if string(data) != "fake-png-bytes" {
		t.Fatalf("unexpected payload %q", data)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if gotPrompt != "a cat wearing sunglasses" {
		t.Fatalf("prompt field = %q", gotPrompt)
	}
}

func TestGenerateFromPrompt_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer server.Close()

	client := NewClipdropClient("test-key").WithBaseURL(server.URL)
	_, err := client.GenerateFromPrompt(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error should carry status and body, got %v", err)
	}
}

func TestGenerateFromPrompt_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClipdropClient("test-key").WithBaseURL(server.URL)
	if _, err := client.GenerateFromPrompt(ctx, "prompt"); err == nil {
		t.Fatal("expected an error with a cancelled context")
	}
}
