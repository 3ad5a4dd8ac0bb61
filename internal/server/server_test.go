// SPDX-License-Identifier: EPL-2.0

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ik5/audshout"
	"github.com/ik5/audshout/internal/analyze"
	"github.com/ik5/audshout/internal/audiotest"
	"github.com/ik5/audshout/internal/audiotest/wavdata"
	"github.com/ik5/audshout/internal/fetch"
	"github.com/ik5/audshout/shout"
)

// stubAnalyzer returns canned answers and records what it was asked.
type stubAnalyzer struct {
	ready  bool
	res    shout.Result
	err    error
	url    string
	data   []byte
	format string
}

func (s *stubAnalyzer) Ready() bool { return s.ready }

func (s *stubAnalyzer) DetectFromURL(_ context.Context, location string) (shout.Result, error) {
	s.url = location
	return s.res, s.err
}

func (s *stubAnalyzer) DetectBytes(_ context.Context, data []byte, format string) (shout.Result, error) {
	s.data = data
	s.format = format
	return s.res, s.err
}

func present() shout.Result {
	start, end := int64(400), int64(1600)
	peak, dur, conf := -5.0, 1.2, 0.6
	return shout.Result{
		Present:         true,
		StartMs:         &start,
		EndMs:           &end,
		PeakDBFS:        &peak,
		DurationSeconds: &dur,
		Confidence:      &conf,
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

const validBody = `{"session_id":"s1","user_id":"u1","conversation":"{}","audio_url":"https://audio.example/a.wav"}`

func TestHealth(t *testing.T) {
	t.Parallel()

	h := New(Config{}, &stubAnalyzer{}, nil).Handler()

	for _, path := range []string{"/healthz", "/"} {
		rec := do(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, rec.Code)
		}
		if got, want := strings.TrimSpace(rec.Body.String()), `{"service":"audshout","status":"running"}`; got != want {
			t.Errorf("GET %s body = %s, want %s", path, got, want)
		}
	}
}

func TestAnalyze_OK(t *testing.T) {
	t.Parallel()

	stub := &stubAnalyzer{ready: true, res: present()}
	h := New(Config{}, stub, nil).Handler()

	for _, path := range []string{"/analyze", "/analyze/"} {
		rec := do(t, h, http.MethodPost, path, validBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %s status = %d body %s", path, rec.Code, rec.Body.String())
		}

		got := decode[AnalyzeResponse](t, rec)
		want := AnalyzeResponse{
			Success:        true,
			SessionID:      "s1",
			UserID:         "u1",
			Conversation:   "{}",
			AudioURL:       "https://audio.example/a.wav",
			ShoutDetection: present(),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}
		if stub.url != "https://audio.example/a.wav" {
			t.Errorf("analyzer asked for %q", stub.url)
		}
	}
}

func TestAnalyze_AbsentSerialisesNulls(t *testing.T) {
	t.Parallel()

	h := New(Config{}, &stubAnalyzer{ready: true, res: shout.Absent()}, nil).Handler()
	rec := do(t, h, http.MethodPost, "/analyze", validBody)

	want := `"shout_detection":{"present":false,"start_ms":null,"end_ms":null,"peak_dbfs":null,"duration_seconds":null,"confidence":null}`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("body %s does not contain %s", rec.Body.String(), want)
	}
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantError   string
		wantDetails []FieldError
	}{
		{
			name:      "malformed json",
			body:      `{"session_id":`,
			wantError: "invalid JSON",
		},
		{
			name:      "missing fields",
			body:      `{"audio_url":"https://a/b.wav"}`,
			wantError: "invalid request",
			wantDetails: []FieldError{
				{Field: "session_id", Message: "is required"},
				{Field: "user_id", Message: "is required"},
				{Field: "conversation", Message: "is required"},
			},
		},
		{
			name:        "bad url",
			body:        `{"session_id":"s","user_id":"u","conversation":"c","audio_url":"not a url"}`,
			wantError:   "invalid request",
			wantDetails: []FieldError{{Field: "audio_url", Message: "must be a valid URL"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubAnalyzer{ready: true}
			rec := do(t, New(Config{}, stub, nil).Handler(), http.MethodPost, "/analyze", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			got := decode[ErrorResponse](t, rec)
			if !strings.HasPrefix(got.Error, tt.wantError) {
				t.Errorf("error = %q, want prefix %q", got.Error, tt.wantError)
			}
			if diff := cmp.Diff(tt.wantDetails, got.Details); diff != "" {
				t.Errorf("details mismatch (-want +got):\n%s", diff)
			}
			if stub.url != "" {
				t.Error("analyzer called for an invalid request")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unavailable", analyze.ErrUnavailable, http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("fetch x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"deadline during fetch", fmt.Errorf("%w: %w", fetch.ErrFetch, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"empty url", fetch.ErrEmptyURL, http.StatusBadRequest},
		{"scheme", fmt.Errorf("%w: %q", fetch.ErrUnsupportedScheme, "ftp"), http.StatusBadRequest},
		{"bad s3 url", fetch.ErrInvalidS3URL, http.StatusBadRequest},
		{"decode", &audshout.DecodeError{Format: "wav", Err: errors.New("bad header")}, http.StatusUnprocessableEntity},
		{"fetch", fmt.Errorf("%w: status 404", fetch.ErrFetch), http.StatusBadGateway},
		{"too large", fetch.ErrTooLarge, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAnalyze_ErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		analyzer Analyzer
		want     int
	}{
		{"no analyzer", nil, http.StatusServiceUnavailable},
		{"not ready", &stubAnalyzer{}, http.StatusServiceUnavailable},
		{"fetch failure", &stubAnalyzer{ready: true, err: fetch.ErrFetch}, http.StatusBadGateway},
		{"decode failure", &stubAnalyzer{ready: true, err: &audshout.DecodeError{Err: audshout.ErrUnknownFormat}}, http.StatusUnprocessableEntity},
		{"timeout", &stubAnalyzer{ready: true, err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, New(Config{}, tt.analyzer, nil).Handler(), http.MethodPost, "/analyze", validBody)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if got := decode[ErrorResponse](t, rec); got.Error == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestDetect_Upload(t *testing.T) {
	t.Parallel()

	stub := &stubAnalyzer{ready: true, res: present()}
	h := New(Config{MaxUploadBytes: 1024}, stub, nil).Handler()

	rec := do(t, h, http.MethodPost, "/detect?format=mp3", "ID3 payload")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff(present(), decode[shout.Result](t, rec)); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if stub.format != "mp3" || string(stub.data) != "ID3 payload" {
		t.Errorf("analyzer got format %q data %q", stub.format, stub.data)
	}

	rec = do(t, h, http.MethodPost, "/detect", strings.Repeat("x", 2048))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized upload status = %d, want 413", rec.Code)
	}
}

func TestDetect_EndToEnd(t *testing.T) {
	t.Parallel()

	det, err := shout.New(shout.DefaultConfig(), shout.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}
	h := New(Config{MaxUploadBytes: 16 << 20}, analyze.New(nil, det), nil).Handler()

	data := wavdata.Bytes(t, 44100, 2, audiotest.Render(44100,
		audiotest.Silence(500*time.Millisecond),
		audiotest.Tone(time.Second, -5, 440),
		audiotest.Silence(500*time.Millisecond),
	))

	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	res := decode[shout.Result](t, rec)
	if !res.Present {
		t.Fatal("expected a shout")
	}
	if *res.StartMs < 300 || *res.StartMs > 500 {
		t.Errorf("start = %d ms, want about 400", *res.StartMs)
	}

	rec = do(t, h, http.MethodPost, "/detect", "plain text, not audio")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("garbage upload status = %d, want 422", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	rec := do(t, New(Config{}, &stubAnalyzer{}, nil).Handler(), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing go runtime collector")
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen on loopback: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv := New(Config{ShutdownTimeout: time.Second}, &stubAnalyzer{}, nil)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
