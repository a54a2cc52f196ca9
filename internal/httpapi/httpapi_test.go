package httpapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/meeting-digest/internal/audiostore"
	"github.com/nguyentantai21042004/meeting-digest/internal/config"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
	"github.com/nguyentantai21042004/meeting-digest/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-digest/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTranscriber struct{ err error }

func (s stubTranscriber) Transcribe(ctx context.Context, path string) (string, []meeting.Segment, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return "Carol owns the budget review.", []meeting.Segment{{Text: "Carol owns the budget review."}}, nil
}

func (stubTranscriber) Close() error { return nil }

type stubSummarizer struct{ err error }

func (s stubSummarizer) Summarize(ctx context.Context, transcript string) (meeting.StructuredSummary, error) {
	if s.err != nil {
		return meeting.StructuredSummary{}, s.err
	}
	return meeting.StructuredSummary{
		Summary:      "Budget review.",
		KeyDecisions: []string{"Freeze hiring"},
		ActionItems:  []meeting.ActionItem{meeting.NewActionItem("Review budget", "Carol", "")},
	}, nil
}

type testServer struct {
	engine *gin.Engine
	store  store.Store
	temp   string
}

func newTestServer(t *testing.T, tr stubTranscriber, sum stubSummarizer) *testServer {
	t.Helper()
	temp := t.TempDir()
	cfg := &config.Config{
		Server:      config.ServerConfig{MaxUploadMB: 1},
		Paths:       config.PathsConfig{Temp: temp},
		Performance: config.PerformanceConfig{MaxConcurrent: 2},
	}
	st := store.NewMemory()
	p := pipeline.New(cfg, audiostore.New(temp, logger.Nop()), tr, sum, st, logger.Nop())
	return &testServer{engine: New(cfg, p, st, logger.Nop()), store: st, temp: temp}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(content)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

func TestProcessUpload(t *testing.T) {
	for _, path := range []string{"/process/", "/process"} {
		t.Run(path, func(t *testing.T) {
			s := newTestServer(t, stubTranscriber{}, stubSummarizer{})

			w := s.do(uploadRequest(t, path, "file", "budget.mp3", []byte("ID3 audio")))
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if w.Header().Get(requestIDHeader) == "" {
				t.Error("missing request id header")
			}

			var got map[string]json.RawMessage
			decodeBody(t, w, &got)
			for _, key := range []string{"id", "filename", "transcript", "summary", "decisions", "actions", "created_at"} {
				if _, ok := got[key]; !ok {
					t.Errorf("response missing %q", key)
				}
			}

			var rec meeting.Record
			decodeBody(t, w, &rec)
			if rec.Filename != "budget.mp3" || len(rec.Decisions) != 1 {
				t.Errorf("record = %+v", rec)
			}
			if rec.Actions[0].Deadline != meeting.DefaultDeadline {
				t.Errorf("deadline = %q", rec.Actions[0].Deadline)
			}

			stored, err := s.store.Get(context.Background(), rec.ID)
			if err != nil || stored.Summary != rec.Summary {
				t.Errorf("stored = %+v, err = %v", stored, err)
			}

			entries, _ := os.ReadDir(s.temp)
			if len(entries) != 0 {
				t.Errorf("temp dir has %d leftover files", len(entries))
			}
		})
	}
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name       string
		tr         stubTranscriber
		sum        stubSummarizer
		wantStatus int
		wantPrefix string
	}{
		{
			name:       "transcription",
			tr:         stubTranscriber{err: meeting.Wrap(meeting.ErrTranscription, errors.New("invalid data"))},
			wantStatus: http.StatusUnprocessableEntity,
			wantPrefix: "transcription failed",
		},
		{
			name:       "summary parse",
			sum:        stubSummarizer{err: meeting.Wrap(meeting.ErrSummaryParse, errors.New("not JSON"))},
			wantStatus: http.StatusBadGateway,
			wantPrefix: "summarization failed",
		},
		{
			name:       "upstream",
			sum:        stubSummarizer{err: meeting.Wrap(meeting.ErrUpstreamUnavailable, errors.New("connection refused"))},
			wantStatus: http.StatusServiceUnavailable,
			wantPrefix: "summarization failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.tr, tt.sum)

			w := s.do(uploadRequest(t, "/process/", "file", "x.wav", []byte("RIFF")))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			var body map[string]string
			decodeBody(t, w, &body)
			if !strings.HasPrefix(body["error"], tt.wantPrefix) {
				t.Errorf("error = %q, want prefix %q", body["error"], tt.wantPrefix)
			}

			entries, _ := os.ReadDir(s.temp)
			if len(entries) != 0 {
				t.Errorf("temp dir has %d leftover files", len(entries))
			}
		})
	}
}

func TestProcessMissingFile(t *testing.T) {
	s := newTestServer(t, stubTranscriber{}, stubSummarizer{})

	w := s.do(uploadRequest(t, "/process/", "", "", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{meeting.Wrap(meeting.ErrNotFound, errors.New("x")), http.StatusNotFound},
		{meeting.Wrap(meeting.ErrIO, errors.New("disk full")), http.StatusInternalServerError},
		{meeting.Wrap(meeting.ErrPersistence, errors.New("down")), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", meeting.Wrap(meeting.ErrTranscription, errors.New("x"))), http.StatusUnprocessableEntity},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGetMeeting(t *testing.T) {
	s := newTestServer(t, stubTranscriber{}, stubSummarizer{})
	id, err := s.store.Insert(context.Background(), meeting.Record{
		Filename:  "retro.ogg",
		Summary:   "Retro.",
		Decisions: []string{},
		Actions:   []meeting.ActionItem{},
	})
	if err != nil {
		t.Fatal(err)
	}

	w := s.do(httptest.NewRequest(http.MethodGet, "/meetings/"+id, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rec meeting.Record
	decodeBody(t, w, &rec)
	if rec.ID != id || rec.Filename != "retro.ogg" {
		t.Errorf("record = %+v", rec)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/meetings/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing meeting status = %d, want 404", w.Code)
	}
}

func TestGetReport(t *testing.T) {
	s := newTestServer(t, stubTranscriber{}, stubSummarizer{})
	id, err := s.store.Insert(context.Background(), meeting.Record{
		Filename:  "retro.ogg",
		Summary:   "Retro.",
		Decisions: []string{"More demos"},
		Actions:   []meeting.ActionItem{},
	})
	if err != nil {
		t.Fatal(err)
	}

	w := s.do(httptest.NewRequest(http.MethodGet, "/meetings/"+id+"/report", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != docxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len())); err != nil {
		t.Errorf("body is not a docx archive: %v", err)
	}

	entries, _ := os.ReadDir(s.temp)
	if len(entries) != 0 {
		t.Errorf("report temp file not removed")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, stubTranscriber{}, stubSummarizer{})
	w := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", w.Code, w.Body.String())
	}
}
