package whisper_test

import (
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apetrei/glas/pkg/provider/stt/whisper"
)

func TestTranscribeSubmitsWAVAndReturnsText(t *testing.T) {
	t.Parallel()

	var gotWAV []byte
	var gotLanguage string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inference" {
			t.Errorf("path = %q, want /inference", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotLanguage = r.FormValue("language")

		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		gotWAV, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":" unde este laboratorul \n"}`)
	}))
	defer srv.Close()

	p, err := whisper.New(srv.URL, whisper.WithLanguage("ro"))
	if err != nil {
		t.Fatal(err)
	}

	pcm := make([]byte, 3200) // 100 ms of 16 kHz mono silence
	text, err := p.Transcribe(context.Background(), pcm)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "unde este laboratorul" {
		t.Errorf("text = %q", text)
	}
	if gotLanguage != "ro" {
		t.Errorf("language = %q, want ro", gotLanguage)
	}

	if len(gotWAV) != 44+len(pcm) {
		t.Fatalf("wav length = %d, want %d", len(gotWAV), 44+len(pcm))
	}
	if string(gotWAV[:4]) != "RIFF" || string(gotWAV[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE magic")
	}
	if rate := binary.LittleEndian.Uint32(gotWAV[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if size := binary.LittleEndian.Uint32(gotWAV[40:44]); int(size) != len(pcm) {
		t.Errorf("data size = %d, want %d", size, len(pcm))
	}
}

func TestTranscribeEmptyAudioSkipsRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("request sent for empty audio")
	}))
	defer srv.Close()

	p, err := whisper.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	text, err := p.Transcribe(context.Background(), nil)
	if err != nil || text != "" {
		t.Errorf("Transcribe(nil) = (%q, %v), want empty and nil", text, err)
	}
}

func TestTranscribeServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := whisper.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Transcribe(context.Background(), make([]byte, 320)); err == nil {
		t.Fatal("expected error for 500 response")
	} else if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error should carry server body, got: %v", err)
	}
}

func TestNewRequiresServerURL(t *testing.T) {
	t.Parallel()

	if _, err := whisper.New(""); err == nil {
		t.Error("expected error for empty serverURL")
	}
}
