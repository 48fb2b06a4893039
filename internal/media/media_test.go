// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

// jpegBytes starts with the JPEG SOI/APP0 markers so mime sniffing works.
var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x42}, 64)...)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x00}, 32)...)

// ---------- data URIs ----------

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		fallback string
		want     string
	}{
		{"jpeg", jpegBytes, "image/jpeg", "image/jpeg"},
		{"png", pngBytes, "image/jpeg", "image/png"},
		{"text as image", []byte("not an image"), "image/jpeg", "image/jpeg"},
		{"text as video", bytes.Repeat([]byte("a"), 2000), "video/mp4", "video/mp4"},
		{"image as video", pngBytes, "video/mp4", "video/mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMIME(tt.data, tt.fallback); got != tt.want {
				t.Errorf("DetectMIME: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDataURI(t *testing.T) {
	got := DataURI("image/png", []byte("abc"))
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("abc"))
	if got != want {
		t.Errorf("DataURI: got %q, want %q", got, want)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"image/png":          ".png",
		"image/jpeg":         ".jpg",
		"video/mp4":          ".mp4",
		"application/x-nope": "",
	}
	for mime, want := range tests {
		t.Run(mime, func(t *testing.T) {
			if got := Extension(mime); got != want {
				t.Errorf("Extension(%q): got %q, want %q", mime, got, want)
			}
		})
	}
}

// ---------- Segmind ----------

func TestSegmind_Success(t *testing.T) {
	var captured segmindRequest
	var apiKey, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("x-api-key")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(jpegBytes)
	}))
	defer srv.Close()

	s := NewSegmind("seg-key", srv.URL)
	s.seed = func() int { return 4242 }

	res, err := s.Synthesize(context.Background(), "a bottle on a beach")
	if err != nil {
		t.Fatalf("Synthesize: unexpected error: %v", err)
	}

	if path != "/sdxl1.0-txt2img" {
		t.Errorf("path: got %q", path)
	}
	if apiKey != "seg-key" {
		t.Errorf("x-api-key: got %q", apiKey)
	}

	want := segmindRequest{
		Prompt:            "a bottle on a beach",
		NegativePrompt:    "blurry, bad quality, distorted, ugly, low resolution, watermark",
		Samples:           1,
		Scheduler:         "UniPC",
		NumInferenceSteps: 25,
		GuidanceScale:     8,
		Seed:              4242,
		ImgWidth:          1024,
		ImgHeight:         1024,
	}
	if captured != want {
		t.Errorf("request body:\n got %+v\nwant %+v", captured, want)
	}

	if res.Provider != "segmind" {
		t.Errorf("Provider: got %q", res.Provider)
	}
	if !strings.HasPrefix(res.URL, "data:image/jpeg;base64,") {
		t.Errorf("URL should be a jpeg data URI: got %.40q", res.URL)
	}
	if !res.HasData() || res.MIME != "image/jpeg" {
		t.Errorf("Data/MIME: len=%d mime=%q", len(res.Data), res.MIME)
	}
}

func TestSegmind_NoKeyOmitsHeader(t *testing.T) {
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasHeader = r.Header["X-Api-Key"]
		w.Write(jpegBytes)
	}))
	defer srv.Close()

	if _, err := NewSegmind("", srv.URL).Synthesize(context.Background(), "p"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if hasHeader {
		t.Error("x-api-key should not be sent without a key")
	}
}

func TestSegmind_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     []byte
		wantText string
	}{
		{"http error", http.StatusUnauthorized, []byte(`{"error":"bad key"}`), "status 401"},
		{"empty body", http.StatusOK, nil, "empty image body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write(tt.body)
			}))
			defer srv.Close()

			_, err := NewSegmind("k", srv.URL).Synthesize(context.Background(), "p")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error should mention %q: got %q", tt.wantText, err.Error())
			}
		})
	}
}

func TestSegmind_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSegmind("k", srv.URL)
	for i := 0; i < 3; i++ {
		if _, err := s.Synthesize(context.Background(), "p"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := s.Synthesize(context.Background(), "p")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("fourth call: got %v, want ErrOpenState", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("upstream calls: got %d, want 3", got)
	}
}

// ---------- Pollinations ----------

func TestPollinations(t *testing.T) {
	p := NewPollinations("")

	res, err := p.Synthesize(context.Background(), "red shoes, studio light")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	want := "https://image.pollinations.ai/prompt/red%20shoes%2C%20studio%20light" +
		"?width=1024&height=1024&nologo=true&enhance=true&model=flux"
	if res.URL != want {
		t.Errorf("URL:\n got %q\nwant %q", res.URL, want)
	}
	if res.Provider != "pollinations" || res.HasData() {
		t.Errorf("result: got %+v", res)
	}

	custom := NewPollinations("http://localhost:9000/")
	if got := custom.URL("x"); !strings.HasPrefix(got, "http://localhost:9000/prompt/x?") {
		t.Errorf("custom base URL: got %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Synthesize(ctx, "x"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

// ---------- Hugging Face ----------

func TestHuggingFace_Success(t *testing.T) {
	video := bytes.Repeat([]byte{0x01}, 4096)
	var auth, path string
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Write(video)
	}))
	defer srv.Close()

	h := NewHuggingFace("hf-key", srv.URL, "damo-vilab/text-to-video-ms-1.7b", nil)
	res, err := h.Synthesize(context.Background(), "waves at dawn")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if path != "/models/damo-vilab/text-to-video-ms-1.7b" {
		t.Errorf("path: got %q", path)
	}
	if auth != "Bearer hf-key" {
		t.Errorf("Authorization: got %q", auth)
	}
	if body["inputs"] != "waves at dawn" {
		t.Errorf("inputs: got %q", body["inputs"])
	}
	if res.Provider != "damo-vilab/text-to-video-ms-1.7b" || h.Name() != res.Provider {
		t.Errorf("Provider: got %q", res.Provider)
	}
	if !strings.HasPrefix(res.URL, "data:video/mp4;base64,") {
		t.Errorf("URL should be an mp4 data URI: got %.40q", res.URL)
	}
	if len(res.Data) != len(video) {
		t.Errorf("Data length: got %d, want %d", len(res.Data), len(video))
	}
}

func TestHuggingFace_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      []byte
		wantText  string
		wantSmall bool
	}{
		{"loading", http.StatusServiceUnavailable, []byte(`{"error":"Model is currently loading"}`), "status 503", false},
		{"tiny payload", http.StatusOK, []byte(`{"queued":true}`), "payload too small", true},
		{"just under minimum", http.StatusOK, bytes.Repeat([]byte{1}, MinVideoBytes-1), "999 bytes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write(tt.body)
			}))
			defer srv.Close()

			_, err := NewHuggingFace("k", srv.URL, "m", nil).Synthesize(context.Background(), "p")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error should mention %q: got %q", tt.wantText, err.Error())
			}
			if errors.Is(err, ErrPayloadTooSmall) != tt.wantSmall {
				t.Errorf("errors.Is(ErrPayloadTooSmall): got %v, want %v", !tt.wantSmall, tt.wantSmall)
			}
		})
	}
}

func TestHuggingFace_ExactMinimumAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{1}, MinVideoBytes))
	}))
	defer srv.Close()

	if _, err := NewHuggingFace("k", srv.URL, "m", nil).Synthesize(context.Background(), "p"); err != nil {
		t.Errorf("payload of exactly %d bytes should be accepted: %v", MinVideoBytes, err)
	}
}

func TestHuggingFace_TimeoutCancelsRequest(t *testing.T) {
	released := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server only notices the client going away once the body is drained.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
		close(released)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHuggingFace("k", srv.URL, "m", nil).Synthesize(ctx, "p")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error: got %v, want deadline exceeded", err)
	}

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Error("server handler was not released after the timeout")
	}
}

// ---------- Pexels ----------

func TestCannedVideo(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"A new fitness App launch", StockTechVideo},
		{"tech gadgets", StockTechVideo},
		{"Travel to the mountains", StockNatureVideo},
		{"nature walk", StockNatureVideo},
		{"office furniture", StockBusinessVideo},
		{"small business owners", StockBusinessVideo},
		{"water bottles", StockGenericVideo},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			if got := CannedVideo(tt.prompt); got != tt.want {
				t.Errorf("CannedVideo(%q): got %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestStockVideos_Search(t *testing.T) {
	var query, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"videos":[{"video_files":[{"link":"https://videos.pexels.com/1.mp4"}]}]}`))
	}))
	defer srv.Close()

	s := NewStockVideos("px-key", srv.URL)
	got := s.Find(context.Background(), "eco friendly water bottles outdoors")

	if got != "https://videos.pexels.com/1.mp4" {
		t.Errorf("Find: got %q", got)
	}
	if auth != "px-key" {
		t.Errorf("Authorization: got %q", auth)
	}
	if !strings.Contains(query, "query=eco+friendly+water") || strings.Contains(query, "bottles") {
		t.Errorf("query should hold the first three words: got %q", query)
	}
	if !strings.Contains(query, "orientation=portrait") || !strings.Contains(query, "per_page=1") {
		t.Errorf("query params: got %q", query)
	}
}

func TestStockVideos_FallsBackToCanned(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no results", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"videos":[]}`)) }},
		{"http error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := NewStockVideos("k", srv.URL).Find(context.Background(), "travel vlog")
			if got != StockNatureVideo {
				t.Errorf("Find: got %q, want %q", got, StockNatureVideo)
			}
		})
	}

	t.Run("no key", func(t *testing.T) {
		if got := NewStockVideos("", "http://127.0.0.1:1").Find(context.Background(), "x"); got != StockGenericVideo {
			t.Errorf("Find: got %q", got)
		}
	})
}
