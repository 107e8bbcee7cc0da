// Package store persists chat and share records in Firebase Realtime
// Database. Records live under chats/{uid}/{chatId} and
// shared_chats/{shareToken}; the owning uid prefix is the only isolation
// mechanism, matching the database's security model.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"

	"github.com/notexhq/notex-backend/internal/apperr"
)

type FirebaseStore struct {
	db     *db.Client
	logger *zap.Logger
}

func NewFirebaseStore(client *db.Client, logger *zap.Logger) *FirebaseStore {
	return &FirebaseStore{db: client, logger: logger}
}

func chatPath(uid, chatID string) string {
	return fmt.Sprintf("chats/%s/%s", uid, chatID)
}

func sharePath(token string) string {
	return fmt.Sprintf("shared_chats/%s", token)
}

// SaveChat writes the record, fully replacing any previous version. Last
// writer wins; there is no concurrency check.
func (s *FirebaseStore) SaveChat(ctx context.Context, uid, chatID string, rec ChatRecord) error {
	rec.ID = "" // the key carries the id
	if err := s.db.NewRef(chatPath(uid, chatID)).Set(ctx, rec); err != nil {
		return apperr.Wrap(apperr.Downstream, "Error saving chat", err)
	}
	s.logger.Info("chat saved", zap.String("uid", uid), zap.String("chat_id", chatID))
	return nil
}

// ListChats returns every chat under the user's prefix with ids attached,
// sorted by id. A user with no chats gets an empty slice, not an error.
func (s *FirebaseStore) ListChats(ctx context.Context, uid string) ([]ChatRecord, error) {
	var raw map[string]ChatRecord
	if err := s.db.NewRef(fmt.Sprintf("chats/%s", uid)).Get(ctx, &raw); err != nil {
		return nil, apperr.Wrap(apperr.Downstream, "Error fetching chats", err)
	}

	chats := make([]ChatRecord, 0, len(raw))
	for id, rec := range raw {
		rec.ID = id
		chats = append(chats, rec)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ID < chats[j].ID })

	s.logger.Info("chats listed", zap.String("uid", uid), zap.Int("count", len(chats)))
	return chats, nil
}

// GetChat returns the record with its id attached, or NotFound.
func (s *FirebaseStore) GetChat(ctx context.Context, uid, chatID string) (*ChatRecord, error) {
	var raw map[string]any
	if err := s.db.NewRef(chatPath(uid, chatID)).Get(ctx, &raw); err != nil {
		return nil, apperr.Wrap(apperr.Downstream, "Error fetching chat", err)
	}
	if raw == nil {
		return nil, apperr.New(apperr.NotFound, "Chat not found")
	}

	var rec ChatRecord
	if err := decode(raw, &rec); err != nil {
		return nil, apperr.Wrap(apperr.Downstream, "Error decoding chat", err)
	}
	rec.ID = chatID
	return &rec, nil
}

// DeleteChat removes the record. Deleting an absent chat is not an error.
func (s *FirebaseStore) DeleteChat(ctx context.Context, uid, chatID string) error {
	if err := s.db.NewRef(chatPath(uid, chatID)).Delete(ctx); err != nil {
		return apperr.Wrap(apperr.Downstream, "Error deleting chat", err)
	}
	s.logger.Info("chat deleted", zap.String("uid", uid), zap.String("chat_id", chatID))
	return nil
}

// SaveShare writes the share record under the token.
func (s *FirebaseStore) SaveShare(ctx context.Context, token string, rec ShareRecord) error {
	if err := s.db.NewRef(sharePath(token)).Set(ctx, rec); err != nil {
		return apperr.Wrap(apperr.Downstream, "Error sharing chat", err)
	}
	s.logger.Info("chat shared", zap.String("uid", rec.OwnerID), zap.String("chat_id", rec.ChatID))
	return nil
}

// GetShare returns the share record for token, or NotFound.
func (s *FirebaseStore) GetShare(ctx context.Context, token string) (*ShareRecord, error) {
	var raw map[string]any
	if err := s.db.NewRef(sharePath(token)).Get(ctx, &raw); err != nil {
		return nil, apperr.Wrap(apperr.Downstream, "Error fetching share", err)
	}
	if raw == nil {
		return nil, apperr.New(apperr.NotFound, "Share not found")
	}

	var rec ShareRecord
	if err := decode(raw, &rec); err != nil {
		return nil, apperr.Wrap(apperr.Downstream, "Error decoding share", err)
	}
	return &rec, nil
}

// decode round-trips an untyped database value into a record struct.
func decode(raw map[string]any, v any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
