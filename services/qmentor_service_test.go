package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qpathAPI/internal/gemini"
	"qpathAPI/internal/qmentor"
)

func newGeminiStub(t *testing.T, reply string) (*gemini.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	client := gemini.NewClient(gemini.Config{APIKey: "test-key", BaseURL: server.URL})
	return client, server
}

func TestGetCareerGuidance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, server := newGeminiStub(t, "Invista em criptografia pós-quântica.")
		defer server.Close()
		svc := NewQMentorService(client)

		resp := svc.GetCareerGuidance(context.Background(), &qmentor.GuidanceRequest{Query: "Como começar?"})
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, "Como começar?", resp.Query)
		assert.Equal(t, "Invista em criptografia pós-quântica.", resp.Response)
	})

	t.Run("unavailable client falls back", func(t *testing.T) {
		svc := NewQMentorService(gemini.NewClient(gemini.Config{}))

		resp := svc.GetCareerGuidance(context.Background(), &qmentor.GuidanceRequest{Query: "Como começar?"})
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Response, "temporariamente indisponível")
	})

	t.Run("upstream failure returns apology", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()
		svc := NewQMentorService(gemini.NewClient(gemini.Config{APIKey: "k", BaseURL: server.URL}))

		resp := svc.GetCareerGuidance(context.Background(), &qmentor.GuidanceRequest{Query: "q"})
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Response, "Desculpe")
	})
}

func TestGetQuantumRecommendations(t *testing.T) {
	t.Run("parses fenced JSON", func(t *testing.T) {
		client, server := newGeminiStub(t, "```json\n{\"technologies\": [\"lattice\"], \"skills\": []}\n```")
		defer server.Close()
		svc := NewQMentorService(client)

		resp := svc.GetQuantumRecommendations(context.Background(), &qmentor.RecommendationRequest{CareerArea: "security"})
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, "beginner", resp.ExperienceLevel)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(resp.Recommendations, &parsed))
		assert.Contains(t, parsed, "technologies")
	})

	t.Run("wraps unparseable reply", func(t *testing.T) {
		client, server := newGeminiStub(t, "não consigo responder em JSON")
		defer server.Close()
		svc := NewQMentorService(client)

		resp := svc.GetQuantumRecommendations(context.Background(), &qmentor.RecommendationRequest{CareerArea: "security", ExperienceLevel: "advanced"})
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, "advanced", resp.ExperienceLevel)

		var wrapped struct {
			RawResponse string `json:"raw_response"`
			Parsed      bool   `json:"parsed"`
		}
		require.NoError(t, json.Unmarshal(resp.Recommendations, &wrapped))
		assert.False(t, wrapped.Parsed)
		assert.Equal(t, "não consigo responder em JSON", wrapped.RawResponse)
	})

	t.Run("unavailable client returns empty list", func(t *testing.T) {
		svc := NewQMentorService(gemini.NewClient(gemini.Config{}))

		resp := svc.GetQuantumRecommendations(context.Background(), &qmentor.RecommendationRequest{CareerArea: "security"})
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, json.RawMessage("[]"), resp.Recommendations)
	})
}

func TestAnalyzeLearningPath(t *testing.T) {
	client, server := newGeminiStub(t, "Foque primeiro em fundamentos de criptografia.")
	defer server.Close()
	svc := NewQMentorService(client)

	resp := svc.AnalyzeLearningPath(context.Background(), &qmentor.LearningPathRequest{
		CurrentSkills: []string{"python", "redes"},
		TargetRole:    "engenheiro de segurança quântica",
	})
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"python", "redes"}, resp.CurrentSkills)
	assert.Equal(t, "Foque primeiro em fundamentos de criptografia.", resp.Analysis)
}

func TestGetQuickTips(t *testing.T) {
	client, server := newGeminiStub(t, "1. Estude. 2. Pratique. 3. Compartilhe.")
	defer server.Close()
	svc := NewQMentorService(client)

	resp := svc.GetQuickTips(context.Background(), "quantum_computing")
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "quantum_computing", resp.CareerArea)
	assert.NotEmpty(t, resp.Tips)
}

func TestQMentorHealth(t *testing.T) {
	t.Run("operational with key", func(t *testing.T) {
		svc := NewQMentorService(gemini.NewClient(gemini.Config{APIKey: "k"}))
		health := svc.Health()
		assert.Equal(t, "operational", health.Status)
		assert.True(t, health.Available)
	})

	t.Run("limited without key", func(t *testing.T) {
		svc := NewQMentorService(gemini.NewClient(gemini.Config{}))
		health := svc.Health()
		assert.Equal(t, "limited", health.Status)
		assert.False(t, health.Available)
	})
}
