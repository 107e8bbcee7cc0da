package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"github.com/notexhq/notex-backend/internal/apperr"
	"github.com/notexhq/notex-backend/internal/store"
)

const (
	// maxSummaryInput is a hard truncation, in characters, of the content
	// submitted for summarization.
	maxSummaryInput = 10000
	// maxContextLength bounds the context prepended to a chat message, in
	// characters.
	maxContextLength = 2000

	emptySummaryPlaceholder = "Unable to generate summary"
	emptyChatPlaceholder    = "No response generated"
)

// modelCaller submits one generation request, optionally with prior turns.
type modelCaller interface {
	generateContent(ctx context.Context, history []*genai.Content, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiCaller struct {
	client *genai.Client
	model  string
}

func (c *geminiCaller) generateContent(ctx context.Context, history []*genai.Content, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	model := c.client.GenerativeModel(c.model)
	if len(history) == 0 {
		return model.GenerateContent(ctx, parts...)
	}
	session := model.StartChat()
	session.History = history
	return session.SendMessage(ctx, parts...)
}

// Generator produces summaries and chat replies through the Gemini API.
type Generator struct {
	caller modelCaller
	logger *zap.Logger
}

func NewGenerator(client *genai.Client, modelName string, logger *zap.Logger) *Generator {
	return &Generator{
		caller: &geminiCaller{client: client, model: modelName},
		logger: logger,
	}
}

// Summarize submits the prompt template followed by the first 10,000
// characters of text. An empty model result yields a placeholder string, not
// an error.
//
// modelChoice is carried through from the client for logging but does not
// select a backend; one configured model serves every request.
func (g *Generator) Summarize(ctx context.Context, text, prompt, modelChoice string) (string, error) {
	g.logger.Info("generating summary", zap.String("model_choice", modelChoice), zap.Int("content_length", len(text)))

	if len(text) > maxSummaryInput {
		text = firstRunes(text, maxSummaryInput)
	}

	resp, err := g.caller.generateContent(ctx, nil, genai.Text(prompt+text))
	if err != nil {
		return "", apperr.Wrap(apperr.GenerationError, "Gemini error", err)
	}

	out := responseText(resp)
	if out == "" {
		g.logger.Warn("model returned empty summary")
		return emptySummaryPlaceholder, nil
	}
	return out, nil
}

// Chat sends message with the prior conversation turns. Roles other than
// "user" collapse to "model"; a supplied context is truncated and prepended
// to the message.
func (g *Generator) Chat(ctx context.Context, message string, history []store.ChatMessage, modelChoice, contextText string) (string, error) {
	g.logger.Info("generating chat response", zap.String("model_choice", modelChoice), zap.Int("history_turns", len(history)))

	turns := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		turns = append(turns, &genai.Content{
			Role:  store.NormalizeRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	full := message
	if contextText != "" {
		if len(contextText) > maxContextLength {
			contextText = firstRunes(contextText, maxContextLength)
		}
		full = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, message)
	}

	resp, err := g.caller.generateContent(ctx, turns, genai.Text(full))
	if err != nil {
		return "", apperr.Wrap(apperr.GenerationError, "Chat error", err)
	}

	out := responseText(resp)
	if out == "" {
		g.logger.Warn("model returned empty chat response")
		return emptyChatPlaceholder, nil
	}
	return out, nil
}

// firstRunes returns at most n characters of s, never cutting mid-rune.
// Slicing by byte index would send invalid UTF-8 to the model and count
// multibyte characters more than once against the limit.
func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
