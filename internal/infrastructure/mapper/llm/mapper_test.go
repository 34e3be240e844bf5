package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-assistant/internal/domain/entity"
	"booking-assistant/internal/infrastructure/logger"
)

// fakeCompletionServer mimics the chat completions endpoint, answering
// every request with the given message content.
func fakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
					"finish_reason": "stop",
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestMapper(t *testing.T, responseContent string) *Mapper {
	t.Helper()
	server := fakeCompletionServer(t, responseContent)
	return NewMapper(Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: server.URL + "/v1",
	}, logger.NewNop())
}

func TestMap_ParsesAssignmentsAndMissing(t *testing.T) {
	m := newTestMapper(t, `{
		"assignments": [
			{"field_id": "#firstName", "value": "Jordan", "action": "type"},
			{"field_id": "#state", "value": "IL", "action": "select"}
		],
		"missing_fields": ["Reason for visit"]
	}`)

	mapping, err := m.Map(context.Background(), &entity.UserProfile{FirstName: "Jordan"}, nil)
	require.NoError(t, err)

	require.Len(t, mapping.Assignments, 2)
	assert.Equal(t, "#firstName", mapping.Assignments[0].FieldID)
	assert.Equal(t, entity.ActionType, mapping.Assignments[0].Action)
	assert.Equal(t, entity.ActionSelect, mapping.Assignments[1].Action)
	assert.Equal(t, []string{"Reason for visit"}, mapping.MissingLabels)
}

func TestMap_ToleratesMarkdownFence(t *testing.T) {
	m := newTestMapper(t, "```json\n{\"assignments\": [], \"missing_fields\": []}\n```")

	mapping, err := m.Map(context.Background(), &entity.UserProfile{}, nil)
	require.NoError(t, err)
	assert.Empty(t, mapping.Assignments)
	assert.Empty(t, mapping.MissingLabels)
}

func TestMap_RejectsUnknownAction(t *testing.T) {
	m := newTestMapper(t, `{"assignments": [{"field_id": "#x", "value": "v", "action": "hover"}]}`)

	_, err := m.Map(context.Background(), &entity.UserProfile{}, nil)
	assert.ErrorContains(t, err, "unknown action kind")
}

func TestMap_RejectsNonJSONResponse(t *testing.T) {
	m := newTestMapper(t, "I could not map these fields, sorry!")

	_, err := m.Map(context.Background(), &entity.UserProfile{}, nil)
	assert.ErrorContains(t, err, "parse mapper response")
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain json", `{"assignments": []}`, false},
		{"fenced json", "```json\n{\"assignments\": []}\n```", false},
		{"fence without language", "```\n{\"assignments\": []}\n```", false},
		{"surrounding whitespace", "\n  {\"assignments\": []}  \n", false},
		{"prose", "sure, here you go", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseResponse(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActionKind(t *testing.T) {
	for s, want := range map[string]entity.ActionKind{
		"type":   entity.ActionType,
		"select": entity.ActionSelect,
		"click":  entity.ActionClick,
		"":       entity.ActionType,
	} {
		got, err := actionKind(s)
		require.NoError(t, err, "input %q", s)
		assert.Equal(t, want, got, "input %q", s)
	}

	_, err := actionKind("drag")
	assert.Error(t, err)
}

func TestDefaultConfig_TargetsOpenRouter(t *testing.T) {
	cfg := DefaultConfig("key", "openai/gpt-4o-mini")
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.BaseURL)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.Model)
}
