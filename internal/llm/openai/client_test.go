package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"creditdispute-backend/internal/llm"
)

// fakeOpenAI records files-API and chat traffic so tests can assert on the
// OCR strategy chain and on resource cleanup.
type fakeOpenAI struct {
	mu           sync.Mutex
	chatBodies   []string
	deletedFiles []string
	chatReply    func(body string) string
}

func (f *fakeOpenAI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "file-123"}`)
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			f.mu.Lock()
			f.deletedFiles = append(f.deletedFiles, strings.TrimPrefix(r.URL.Path, "/files/"))
			f.mu.Unlock()
		}
		fmt.Fprint(w, `{"deleted": true}`)
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body := string(raw)
		f.mu.Lock()
		f.chatBodies = append(f.chatBodies, body)
		reply := f.chatReply(body)
		f.mu.Unlock()

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func newFakeClient(t *testing.T, fake *fakeOpenAI) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	client, err := NewClient("test-key", "gpt-4o")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestParseReportReturnsJSON(t *testing.T) {
	fake := &fakeOpenAI{chatReply: func(string) string {
		return `{"accounts": []}`
	}}
	client := newFakeClient(t, fake)

	raw, err := client.ParseReport(context.Background(), llm.ParseInput{
		ReportText: "some report text",
		Bureau:     "transunion",
	})
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if string(raw) != `{"accounts": []}` {
		t.Fatalf("raw = %s", raw)
	}
	if len(fake.chatBodies) != 1 || !strings.Contains(fake.chatBodies[0], `"json_object"`) {
		t.Fatalf("parse must request the json_object response format")
	}
}

func TestParseReportRejectsNonJSONContent(t *testing.T) {
	fake := &fakeOpenAI{chatReply: func(string) string {
		return "sorry, I cannot do that"
	}}
	client := newFakeClient(t, fake)

	if _, err := client.ParseReport(context.Background(), llm.ParseInput{ReportText: "text"}); err == nil {
		t.Fatalf("expected error for non-JSON content")
	}
}

func TestExtractReportTextUsesFileUploadFirst(t *testing.T) {
	longText := strings.Repeat("account balance status ", 20)
	fake := &fakeOpenAI{chatReply: func(string) string {
		return longText
	}}
	client := newFakeClient(t, fake)

	got, err := client.ExtractReportText(context.Background(), llm.ExtractInput{
		Data:     []byte("%PDF-1.4 fake"),
		FileName: "report.pdf",
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("ExtractReportText: %v", err)
	}
	if got != longText {
		t.Fatalf("unexpected text: %q", got)
	}
	if len(fake.chatBodies) != 1 {
		t.Fatalf("expected a single chat call, got %d", len(fake.chatBodies))
	}
	if !strings.Contains(fake.chatBodies[0], "file-123") {
		t.Fatalf("chat call should reference the uploaded file")
	}
	if len(fake.deletedFiles) != 1 || fake.deletedFiles[0] != "file-123" {
		t.Fatalf("uploaded file must be deleted, got %v", fake.deletedFiles)
	}
}

func TestExtractReportTextFallsBackToVision(t *testing.T) {
	longText := strings.Repeat("creditor payment history ", 20)
	fake := &fakeOpenAI{}
	fake.chatReply = func(body string) string {
		if strings.Contains(body, "image_url") {
			return longText
		}
		return "too short" // under the usable cutoff
	}
	client := newFakeClient(t, fake)

	got, err := client.ExtractReportText(context.Background(), llm.ExtractInput{
		Data:     []byte("%PDF-1.4 fake"),
		FileName: "report.pdf",
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("ExtractReportText: %v", err)
	}
	if got != longText {
		t.Fatalf("expected vision fallback text, got %q", got)
	}
	if len(fake.chatBodies) != 2 {
		t.Fatalf("expected two chat calls, got %d", len(fake.chatBodies))
	}
	if !strings.Contains(fake.chatBodies[1], "base64,") {
		t.Fatalf("vision call should embed a data URL")
	}
	if len(fake.deletedFiles) != 1 {
		t.Fatalf("uploaded file must be deleted even when its text is unusable")
	}
}

func TestExtractReportTextReturnsLongerPartial(t *testing.T) {
	fake := &fakeOpenAI{}
	fake.chatReply = func(body string) string {
		if strings.Contains(body, "image_url") {
			return "short vision text but longer"
		}
		return "short"
	}
	client := newFakeClient(t, fake)

	got, err := client.ExtractReportText(context.Background(), llm.ExtractInput{
		Data: []byte("fake"), FileName: "report.pdf",
	})
	if err != nil {
		t.Fatalf("ExtractReportText: %v", err)
	}
	if got != "short vision text but longer" {
		t.Fatalf("expected the longer partial, got %q", got)
	}
}
