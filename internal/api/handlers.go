package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notexhq/notex-backend/internal/apperr"
	"github.com/notexhq/notex-backend/internal/auth"
	"github.com/notexhq/notex-backend/internal/core"
	"github.com/notexhq/notex-backend/internal/store"
)

const (
	apiVersion   = "1.0.0"
	defaultModel = "Google Gemini"
)

// TokenVerifier establishes the caller's identity from the raw Authorization
// header value.
type TokenVerifier interface {
	Verify(ctx context.Context, authorization string) (*auth.Identity, error)
}

// Generator produces summaries and chat replies.
type Generator interface {
	Summarize(ctx context.Context, text, prompt, modelChoice string) (string, error)
	Chat(ctx context.Context, message string, history []store.ChatMessage, modelChoice, contextText string) (string, error)
}

// TranscriptFetcher resolves a video URL to its transcript text.
type TranscriptFetcher interface {
	Transcript(ctx context.Context, url string) (string, error)
}

// DocumentExtractor turns an uploaded file into plain text.
type DocumentExtractor func(filename string, data []byte) (string, error)

// ChatStore persists chat and share records.
type ChatStore interface {
	SaveChat(ctx context.Context, uid, chatID string, rec store.ChatRecord) error
	ListChats(ctx context.Context, uid string) ([]store.ChatRecord, error)
	GetChat(ctx context.Context, uid, chatID string) (*store.ChatRecord, error)
	DeleteChat(ctx context.Context, uid, chatID string) error
	SaveShare(ctx context.Context, token string, rec store.ShareRecord) error
	GetShare(ctx context.Context, token string) (*store.ShareRecord, error)
}

type APIHandler struct {
	verifier        TokenVerifier
	generator       Generator
	transcripts     TranscriptFetcher
	extractDocument DocumentExtractor
	chats           ChatStore
	logger          *zap.Logger

	maxUploadBytes int64
	googleAPISet   bool
}

// NewAPIHandler wires the collaborators. verifier and chats may be nil when
// Firebase failed to initialize; the server then still serves the stateless
// routes, matching the original service's degraded mode.
func NewAPIHandler(verifier TokenVerifier, generator Generator, transcripts TranscriptFetcher,
	extractDocument DocumentExtractor, chats ChatStore, maxUploadBytes int64, googleAPISet bool,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		verifier:        verifier,
		generator:       generator,
		transcripts:     transcripts,
		extractDocument: extractDocument,
		chats:           chats,
		logger:          logger,
		maxUploadBytes:  maxUploadBytes,
		googleAPISet:    googleAPISet,
	}
}

type contextKey string

const identityKey contextKey = "identity"

func identityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}

// AuthMiddleware verifies the Authorization header and stores the resulting
// identity in the request context.
func (h *APIHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.verifier == nil {
			writeError(h.logger, w, apperr.New(apperr.Downstream, "Firebase not initialized"))
			return
		}
		identity, err := h.verifier.Verify(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			writeError(h.logger, w, err)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "NoteX API is running",
		"version": apiVersion,
	})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	firebase := "not initialized"
	if h.chats != nil {
		firebase = "initialized"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"firebase":   firebase,
		"google_api": h.googleAPISet,
	})
}

type ChatRequest struct {
	Message string              `json:"message"`
	History []store.ChatMessage `json:"history"`
	Model   string              `json:"model"`
	Context string              `json:"context,omitempty"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, apperr.Wrap(apperr.InvalidRequest, "Invalid request body", err))
		return
	}
	if req.Message == "" {
		writeError(h.logger, w, apperr.New(apperr.InvalidRequest, "Message is required"))
		return
	}
	if req.Model == "" {
		req.Model = defaultModel
	}
	for i := range req.History {
		req.History[i].Role = store.NormalizeRole(req.History[i].Role)
	}

	text, err := h.generator.Chat(r.Context(), req.Message, req.History, req.Model, req.Context)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": text})
}

type YouTubeRequest struct {
	URL   string `json:"url"`
	Model string `json:"model"`
}

func (h *APIHandler) SummarizeYouTubeHandler(w http.ResponseWriter, r *http.Request) {
	var req YouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, apperr.Wrap(apperr.InvalidRequest, "Invalid request body", err))
		return
	}
	if req.Model == "" {
		req.Model = defaultModel
	}

	transcript, err := h.transcripts.Transcript(r.Context(), req.URL)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	if strings.TrimSpace(transcript) == "" {
		writeError(h.logger, w, apperr.New(apperr.EmptyContent, "No text content found"))
		return
	}

	summary, err := h.generator.Summarize(r.Context(), transcript, core.VideoPrompt, req.Model)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "summary": summary})
}

func (h *APIHandler) SummarizeDocumentHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(h.logger, w, apperr.Wrap(apperr.InvalidRequest, "Invalid upload", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(h.logger, w, apperr.Wrap(apperr.InvalidRequest, "Missing file", err))
		return
	}
	defer file.Close()

	model := r.FormValue("model")
	if model == "" {
		model = defaultModel
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(h.logger, w, apperr.Wrap(apperr.ExtractionError, "Error reading upload", err))
		return
	}

	text, err := h.extractDocument(header.Filename, content)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		writeError(h.logger, w, apperr.New(apperr.EmptyContent, "No text content found"))
		return
	}

	summary, err := h.generator.Summarize(r.Context(), text, core.DocumentPrompt, model)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "summary": summary})
}

type SaveChatRequest struct {
	ChatID   string              `json:"chatId"`
	Title    string              `json:"title"`
	Messages []store.ChatMessage `json:"messages"`
	Context  string              `json:"context,omitempty"`
}

func (h *APIHandler) SaveChatHandler(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req SaveChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, apperr.Wrap(apperr.InvalidRequest, "Invalid request body", err))
		return
	}
	if req.ChatID == "" {
		writeError(h.logger, w, apperr.New(apperr.InvalidRequest, "chatId is required"))
		return
	}
	for i := range req.Messages {
		req.Messages[i].Role = store.NormalizeRole(req.Messages[i].Role)
	}

	rec := store.ChatRecord{
		Title:     req.Title,
		Messages:  req.Messages,
		Context:   req.Context,
		Timestamp: time.Now().Format(time.RFC3339),
		OwnerID:   identity.UID,
	}
	if err := h.chats.SaveChat(r.Context(), identity.UID, req.ChatID, rec); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chatId": req.ChatID})
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	chats, err := h.chats.ListChats(r.Context(), identity.UID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	if chats == nil {
		chats = []store.ChatRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chats": chats})
}

func (h *APIHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	chatID := chi.URLParam(r, "chatID")

	chat, err := h.chats.GetChat(r.Context(), identity.UID, chatID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chat": chat})
}

func (h *APIHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	chatID := chi.URLParam(r, "chatID")

	if err := h.chats.DeleteChat(r.Context(), identity.UID, chatID); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Chat deleted"})
}

type ShareChatRequest struct {
	ChatID     string `json:"chatId"`
	ShareToken string `json:"shareToken"`
}

func (h *APIHandler) ShareChatHandler(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	chatID := chi.URLParam(r, "chatID")

	var req ShareChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, apperr.Wrap(apperr.InvalidRequest, "Invalid request body", err))
		return
	}

	token := req.ShareToken
	if token == "" {
		token = uuid.NewString()
	}

	// A token already bound to a different chat must not be silently
	// overwritten; re-sharing the same chat is idempotent.
	if existing, err := h.chats.GetShare(r.Context(), token); err == nil {
		if existing.ChatID != chatID || existing.OwnerID != identity.UID {
			writeError(h.logger, w, apperr.New(apperr.Conflict, "Share token already in use"))
			return
		}
	} else if apperr.KindOf(err) != apperr.NotFound {
		writeError(h.logger, w, err)
		return
	}

	rec := store.ShareRecord{
		ChatID:    chatID,
		OwnerID:   identity.UID,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := h.chats.SaveShare(r.Context(), token, rec); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "shareToken": token})
}

// SharedChatHandler resolves a share token to the chat it points at. No
// authentication; possession of the token grants read access.
func (h *APIHandler) SharedChatHandler(w http.ResponseWriter, r *http.Request) {
	if h.chats == nil {
		writeError(h.logger, w, apperr.New(apperr.Downstream, "Firebase not initialized"))
		return
	}
	token := chi.URLParam(r, "shareToken")

	share, err := h.chats.GetShare(r.Context(), token)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	chat, err := h.chats.GetChat(r.Context(), share.OwnerID, share.ChatID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "chat": chat})
}
