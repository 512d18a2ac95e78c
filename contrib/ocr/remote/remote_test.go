package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractTextUploadsImage(t *testing.T) {
	var gotLang string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		gotLang = r.FormValue("lang")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		gotFile, _ = io.ReadAll(file)
		json.NewEncoder(w).Encode(ocrResponse{Text: "NOTICE TO QUIT"})
	}))
	defer srv.Close()

	client, err := New(&Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	text, err := client.ExtractText(context.Background(), []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("ExtractText error: %v", err)
	}
	if text != "NOTICE TO QUIT" {
		t.Fatalf("text: %q", text)
	}
	if gotLang != "eng" {
		t.Fatalf("default language: %q", gotLang)
	}
	if len(gotFile) != 2 || gotFile[0] != 0xFF {
		t.Fatalf("uploaded bytes: %v", gotFile)
	}
}

func TestExtractTextServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ocrResponse{Error: "unreadable image"})
	}))
	defer srv.Close()

	client, err := New(&Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := client.ExtractText(context.Background(), []byte{1}); err == nil {
		t.Fatal("expected service error")
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestExtractTextRejectsEmptyPayload(t *testing.T) {
	client, err := New(&Config{Endpoint: "http://127.0.0.1:9"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := client.ExtractText(context.Background(), nil); err == nil {
		t.Fatal("expected empty payload error")
	}
}
