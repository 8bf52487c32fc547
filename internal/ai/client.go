// Package ai wraps the OpenAI chat API behind the three operations the
// workflow layer needs: simulated consultation transcripts, anamnesis
// extraction, and tonometer-photo recognition. The client is constructed
// explicitly and injected; there is no process-wide instance.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/eliahealth/elia/internal/config"
)

var (
	// ErrNotConfigured means no API credential is available. Distinct from
	// ErrBadResponse so callers can tell "not set up" from "call failed".
	ErrNotConfigured = errors.New("openai api key is not configured")
	ErrBadResponse   = errors.New("malformed response from openai")
)

// AnamnesisData is the structured triple extracted from a consultation
// transcript. Fields the model could not determine stay nil.
type AnamnesisData struct {
	Purpose    *string `json:"purpose"`
	Complaints *string `json:"complaints"`
	Anamnesis  *string `json:"anamnesis"`
}

// BloodPressureReading is the result of recognizing a tonometer display
// photograph.
type BloodPressureReading struct {
	Success    bool   `json:"success"`
	Systolic   int    `json:"systolic"`
	Diastolic  int    `json:"diastolic"`
	Pulse      int    `json:"pulse"`
	Confidence string `json:"confidence"` // high | medium | low
	Error      string `json:"error"`
}

type Client struct {
	api   *openai.Client
	model string
	log   *zap.Logger
}

func NewClient(cfg config.OpenAIConfig, log *zap.Logger) *Client {
	c := &Client{model: cfg.Model, log: log}
	if !cfg.Configured() {
		log.Warn("openai api key is not set, AI features degrade to fallbacks")
		return c
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	c.api = openai.NewClientWithConfig(apiCfg)
	return c
}

func (c *Client) Configured() bool {
	return c.api != nil
}

const conversationSystemPrompt = `Ты - эксперт по созданию медицинских транскрипций.
Твоя задача - создать реалистичный диалог между врачом и пациентом на приёме в поликлинике.

Требования:
1. Диалог должен длиться 5-7 минут
2. Каждая реплика должна иметь временную метку в формате MM:SS
3. Диалог должен быть естественным и реалистичным
4. Включить основные этапы приёма: приветствие, сбор жалоб, анамнез, осмотр, рекомендации
5. Использовать профессиональную медицинскую терминологию, но доступным языком
6. Диалог должен быть на русском языке

Формат вывода:
00:00 - Врач: [текст]
00:15 - Пациент: [текст]
...`

// GenerateConversation produces a timestamped doctor-patient dialogue for the
// given patient, standing in for a real recording transcript.
func (c *Client) GenerateConversation(ctx context.Context, patientName string, patientAge int, gender string) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}

	genderRU := "мужчина"
	if gender == "female" {
		genderRU = "женщина"
	}

	userPrompt := fmt.Sprintf(`Создай транскрипцию диалога врача с пациентом.

Информация о пациенте:
- ФИО: %s
- Возраст: %d лет
- Пол: %s

Создай реалистичный медицинский диалог с конкретной проблемой со здоровьем.
Диалог должен включать жалобы пациента, сбор анамнеза, осмотр и рекомендации врача.`, patientName, patientAge, genderRU)

	c.log.Info("requesting dialogue generation", zap.String("patient", patientName))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: conversationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   2000,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("generating conversation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrBadResponse)
	}

	conversation := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.log.Info("dialogue generated", zap.Int("length", len(conversation)))
	return conversation, nil
}

const anamnesisSystemPrompt = `Ты - медицинский ассистент, специализирующийся на структурировании медицинской информации.
Твоя задача - проанализировать транскрипцию диалога врача с пациентом и извлечь структурированные данные для медицинской карты.

Верни ответ СТРОГО в формате JSON со следующими полями:
{
  "purpose": "Краткая цель обращения (1-2 предложения)",
  "complaints": "Основные жалобы пациента (детально, как он описывал)",
  "anamnesis": "Подробный анамнез: история заболевания, результаты осмотра, предварительный диагноз, назначения и рекомендации"
}

Требования:
1. purpose - краткая суть обращения
2. complaints - все жалобы пациента своими словами
3. anamnesis - полная информация: когда началось, как развивалось, данные осмотра, диагноз, назначения
4. Используй профессиональную медицинскую терминологию
5. Будь кратким, но информативным`

// ExtractAnamnesis parses a consultation transcript into the structured
// purpose/complaints/anamnesis triple.
func (c *Client) ExtractAnamnesis(ctx context.Context, transcription string) (*AnamnesisData, error) {
	if c.api == nil {
		return nil, ErrNotConfigured
	}

	userPrompt := fmt.Sprintf(`Проанализируй следующую транскрипцию диалога врача с пациентом и извлеки структурированные данные:

%s

Верни данные в формате JSON.`, transcription)

	c.log.Info("requesting anamnesis extraction")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: anamnesisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   1500,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extracting anamnesis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrBadResponse)
	}

	data, err := ParseAnamnesis(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.Error("failed to parse anamnesis payload", zap.Error(err))
		return nil, err
	}

	c.log.Info("anamnesis data extracted")
	return data, nil
}

const bloodPressureSystemPrompt = `Ты - ассистент, распознающий показания тонометра на фотографии дисплея.

Верни ответ СТРОГО в формате JSON:
{
  "success": true,
  "systolic": 120,
  "diastolic": 80,
  "pulse": 70,
  "confidence": "high",
  "error": ""
}

confidence - одно из: high, medium, low.
Если показания не читаются, верни success=false и заполни error.`

// RecognizeBloodPressure reads a tonometer display from a base64-encoded
// photograph. Vision models sometimes wrap the JSON answer in a markdown
// code fence; the payload is extracted regardless.
func (c *Client) RecognizeBloodPressure(ctx context.Context, imageBase64 string) (*BloodPressureReading, error) {
	if c.api == nil {
		return nil, ErrNotConfigured
	}

	c.log.Info("requesting blood pressure recognition")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: bloodPressureSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Распознай показания тонометра на фотографии.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + imageBase64,
						},
					},
				},
			},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return nil, fmt.Errorf("recognizing blood pressure: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrBadResponse)
	}

	reading, err := ParseBloodPressure(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.Error("failed to parse blood pressure payload", zap.Error(err))
		return nil, err
	}
	return reading, nil
}

// ParseAnamnesis decodes the extraction payload, tolerating a surrounding
// markdown code fence.
func ParseAnamnesis(raw string) (*AnamnesisData, error) {
	var data AnamnesisData
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &data, nil
}

// ParseBloodPressure decodes the recognition payload, tolerating a
// surrounding markdown code fence.
func ParseBloodPressure(raw string) (*BloodPressureReading, error) {
	var reading BloodPressureReading
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &reading); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &reading, nil
}

// stripCodeFence removes a ```json ... ``` (or bare ```) wrapper if present
// and returns the inner payload trimmed.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
