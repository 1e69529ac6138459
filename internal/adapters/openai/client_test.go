package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

func completionResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestAnalyzeMood_SendsPromptAndModel(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse(`{"mood": "calm"}`)))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", nil)
	out, err := c.AnalyzeMood(context.Background(), "quiet evening")
	if err != nil {
		t.Fatalf("AnalyzeMood returned error: %v", err)
	}

	if out != `{"mood": "calm"}` {
		t.Fatalf("content = %q", out)
	}
	if gotReq.Model != "gpt-5-mini" {
		t.Fatalf("model = %q, want gpt-5-mini", gotReq.Model)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
}

func TestRecommendSongs_ModelAndPromptVariant(t *testing.T) {
	tests := []struct {
		name       string
		profile    domain.MoodProfile
		wantInBody string
	}{
		{
			name:       "artist constrained",
			profile:    domain.MoodProfile{Mood: "joy", Artists: []string{"IU"}},
			wantInBody: "Only recommend existing songs by the artists",
		},
		{
			name:       "genre grouped",
			profile:    domain.MoodProfile{Mood: "joy", Genres: []string{"pop"}},
			wantInBody: "Max 1 track per artist",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotReq chatRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
					t.Fatalf("decode request: %v", err)
				}
				w.Write([]byte(completionResponse(`{}`)))
			}))
			defer server.Close()

			c := NewClient(server.URL, "k", nil)
			if _, err := c.RecommendSongs(context.Background(), tc.profile); err != nil {
				t.Fatalf("RecommendSongs returned error: %v", err)
			}

			if gotReq.Model != "gpt-4o-mini" {
				t.Fatalf("model = %q, want gpt-4o-mini", gotReq.Model)
			}
			if len(gotReq.Messages) != 1 {
				t.Fatalf("messages = %+v", gotReq.Messages)
			}
			if body := gotReq.Messages[0].Content; !strings.Contains(body, tc.wantInBody) {
				t.Fatalf("prompt missing %q", tc.wantInBody)
			}
		})
	}
}

func TestComplete_FailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "api error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error": {"message": "rate limited"}}`))
			},
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices": []}`))
			},
		},
		{
			name: "blank content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionResponse("   ")))
			},
		},
		{
			name: "invalid response body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := NewClient(server.URL, "k", nil)
			_, err := c.AnalyzeMood(context.Background(), "mood")
			if !errors.Is(err, domain.ErrGenerationUnavailable) {
				t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
			}
		})
	}
}

func TestComplete_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // no listener behind the URL anymore

	c := NewClient(server.URL, "k", nil)
	_, err := c.AnalyzeMood(context.Background(), "mood")
	if !errors.Is(err, domain.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}
}
