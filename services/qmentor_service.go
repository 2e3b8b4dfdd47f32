package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"qpathAPI/internal/gemini"
	"qpathAPI/internal/qmentor"
)

const unavailableMessage = "Q-Mentor está temporariamente indisponível. Tente novamente mais tarde."

// QMentorService proxies mentoring questions to the Gemini API. Every answer
// degrades to a fixed Portuguese message when the model is unreachable, so
// the endpoints never fail because of the upstream.
type QMentorService struct {
	client *gemini.Client
}

func NewQMentorService(client *gemini.Client) *QMentorService {
	return &QMentorService{client: client}
}

func (s *QMentorService) Available() bool {
	return s.client.Available()
}

// GetCareerGuidance answers a free-form career question, optionally shaped by
// the user's profile context.
func (s *QMentorService) GetCareerGuidance(ctx context.Context, req *qmentor.GuidanceRequest) *qmentor.GuidanceResponse {
	if !s.client.Available() {
		return &qmentor.GuidanceResponse{Response: unavailableMessage, Status: "error", Query: req.Query}
	}

	prompt := buildCareerPrompt(req.Query, req.UserProfile)
	text, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Q-Mentor guidance error: %v", err)
		return &qmentor.GuidanceResponse{
			Response: "Desculpe, encontrei um problema ao processar sua pergunta. Tente reformular ou tente novamente em alguns minutos.",
			Status:   "error",
			Query:    req.Query,
		}
	}

	return &qmentor.GuidanceResponse{Response: text, Status: "success", Query: req.Query}
}

// GetQuantumRecommendations asks for a structured recommendation set. The
// model is prompted for JSON; when the reply does not parse, it is wrapped
// as raw text instead of dropped.
func (s *QMentorService) GetQuantumRecommendations(ctx context.Context, req *qmentor.RecommendationRequest) *qmentor.RecommendationResponse {
	experienceLevel := req.ExperienceLevel
	if experienceLevel == "" {
		experienceLevel = "beginner"
	}

	if !s.client.Available() {
		return &qmentor.RecommendationResponse{
			Recommendations: json.RawMessage("[]"),
			Status:          "error",
			CareerArea:      req.CareerArea,
			ExperienceLevel: experienceLevel,
		}
	}

	prompt := fmt.Sprintf(`Como Q-Mentor, um especialista em carreiras quântico-seguras, forneça recomendações específicas para:

Área: %s
Nível: %s

Foque em:
1. Tecnologias quântico-seguras relevantes
2. Habilidades futuras necessárias
3. Cursos/certificações recomendados
4. Projetos práticos para começar
5. Roadmap de 3-6 meses

Formato de resposta em JSON:
{
    "technologies": ["tech1", "tech2"],
    "skills": ["skill1", "skill2"],
    "courses": ["course1", "course2"],
    "projects": ["project1", "project2"],
    "roadmap": ["month1", "month2", "month3"]
}`, req.CareerArea, experienceLevel)

	text, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Quantum-safe recommendations error: %v", err)
		return &qmentor.RecommendationResponse{
			Recommendations: json.RawMessage("[]"),
			Status:          "error",
			CareerArea:      req.CareerArea,
			ExperienceLevel: experienceLevel,
		}
	}

	recommendations := parseRecommendations(text)
	return &qmentor.RecommendationResponse{
		Recommendations: recommendations,
		Status:          "success",
		CareerArea:      req.CareerArea,
		ExperienceLevel: experienceLevel,
	}
}

// AnalyzeLearningPath builds a skill-gap analysis from current skills toward
// a target role.
func (s *QMentorService) AnalyzeLearningPath(ctx context.Context, req *qmentor.LearningPathRequest) *qmentor.LearningPathResponse {
	if !s.client.Available() {
		return &qmentor.LearningPathResponse{
			Analysis:      "Q-Mentor indisponível",
			Status:        "error",
			CurrentSkills: req.CurrentSkills,
			TargetRole:    req.TargetRole,
		}
	}

	prompt := fmt.Sprintf(`Como Q-Mentor, analise o gap de habilidades e crie um plano de desenvolvimento:

Habilidades atuais: %s
Objetivo: %s

Analise:
1. Pontos fortes existentes
2. Gaps principais a preencher
3. Prioridades de aprendizado
4. Tempo estimado de transição
5. Passos específicos e práticos

Seja específico e prático, focando em tecnologias quântico-seguras quando relevante.`,
		strings.Join(req.CurrentSkills, ", "), req.TargetRole)

	text, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Learning path analysis error: %v", err)
		return &qmentor.LearningPathResponse{
			Analysis:      "Erro na análise. Tente novamente em alguns minutos.",
			Status:        "error",
			CurrentSkills: req.CurrentSkills,
			TargetRole:    req.TargetRole,
		}
	}

	return &qmentor.LearningPathResponse{
		Analysis:      text,
		Status:        "success",
		CurrentSkills: req.CurrentSkills,
		TargetRole:    req.TargetRole,
	}
}

// GetQuickTips reuses the guidance path with a canned three-tips query.
func (s *QMentorService) GetQuickTips(ctx context.Context, careerArea string) *qmentor.QuickTipsResponse {
	query := fmt.Sprintf("Dê 3 dicas rápidas e práticas para alguém na área de %s considerando tecnologias quântico-seguras", careerArea)
	result := s.GetCareerGuidance(ctx, &qmentor.GuidanceRequest{
		Query:       query,
		UserProfile: &qmentor.UserProfile{CareerArea: careerArea},
	})

	return &qmentor.QuickTipsResponse{
		CareerArea: careerArea,
		Tips:       result.Response,
		Status:     result.Status,
	}
}

func (s *QMentorService) Health() *qmentor.HealthResponse {
	available := s.client.Available()
	status := "operational"
	message := "Q-Mentor está funcionando normalmente"
	if !available {
		status = "limited"
		message = "Q-Mentor com funcionalidade limitada - verifique configuração da API"
	}

	return &qmentor.HealthResponse{
		Service:   "Q-Mentor",
		Status:    status,
		Available: available,
		Message:   message,
	}
}

func buildCareerPrompt(query string, profile *qmentor.UserProfile) string {
	var b strings.Builder
	b.WriteString(`Você é Q-Mentor, um mentor de carreira especializado em tecnologias quântico-seguras e desenvolvimento profissional.

Contexto: Ajude profissionais a navegar suas carreiras considerando o futuro quântico da tecnologia.

Pergunta do usuário: `)
	b.WriteString(query)

	if profile != nil {
		b.WriteString("\n\nPerfil do usuário:")
		b.WriteString("\n- Nível de experiência: " + orDefault(profile.ExperienceLevel))
		b.WriteString("\n- Área de interesse: " + orDefault(profile.CareerArea))
		b.WriteString("\n- Objetivos: " + orDefault(profile.Goals))
	}

	b.WriteString(`

Diretrizes para resposta:
1. Seja prático e específico
2. Considere a revolução quântica vindoura
3. Sugira passos concretos
4. Mantenha tom motivacional e profissional
5. Limite a resposta a 300 palavras`)

	return b.String()
}

func orDefault(v string) string {
	if v == "" {
		return "Não informado"
	}
	return v
}

// parseRecommendations accepts the model reply as JSON, tolerating markdown
// code fences around it.
func parseRecommendations(text string) json.RawMessage {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned)
	}

	wrapped, err := json.Marshal(map[string]any{"raw_response": text, "parsed": false})
	if err != nil {
		return json.RawMessage(`{"parsed": false}`)
	}
	return json.RawMessage(wrapped)
}
