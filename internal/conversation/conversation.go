// Package conversation saves, loads, and transfers chat transcripts.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/storage"
)

const (
	listKey        = "qualitybot-conversations"
	titleMaxLength = 50
)

// Sentinel errors callers branch on.
var (
	// ErrTooShort reports a transcript with only the greeting message.
	ErrTooShort = errors.New("conversation has no user messages to save")
	// ErrNotFound reports an unknown conversation id.
	ErrNotFound = errors.New("conversation not found")
)

// Store persists the conversation list as one JSON document.
// Unbounded: there is no eviction policy.
type Store struct {
	store storage.Storage
}

// NewStore wraps a storage backend.
func NewStore(store storage.Storage) *Store {
	return &Store{store: store}
}

// List returns all saved conversations in save order.
func (s *Store) List() ([]model.Conversation, error) {
	data, err := s.store.Get(listKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}
	var conversations []model.Conversation
	if err := json.Unmarshal([]byte(data), &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return conversations, nil
}

// Save appends the transcript as a new conversation. A transcript with
// one message or fewer is just the initial greeting and is rejected.
// The title is the first user message capped at 50 characters plus an
// ellipsis.
func (s *Store) Save(messages []model.Message) (model.Conversation, error) {
	if len(messages) <= 1 {
		return model.Conversation{}, ErrTooShort
	}

	now := time.Now()
	conv := model.Conversation{
		ID:        uuid.NewString(),
		Title:     TitleFor(messages),
		Messages:  append([]model.Message(nil), messages...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	conversations, err := s.List()
	if err != nil {
		return model.Conversation{}, err
	}
	if err := s.write(append(conversations, conv)); err != nil {
		return model.Conversation{}, err
	}
	return conv, nil
}

// Get returns a conversation by id.
func (s *Store) Get(id string) (model.Conversation, error) {
	conversations, err := s.List()
	if err != nil {
		return model.Conversation{}, err
	}
	for _, conv := range conversations {
		if conv.ID == id {
			return conv, nil
		}
	}
	return model.Conversation{}, ErrNotFound
}

// Delete removes a conversation by id.
func (s *Store) Delete(id string) error {
	conversations, err := s.List()
	if err != nil {
		return err
	}
	kept := conversations[:0]
	found := false
	for _, conv := range conversations {
		if conv.ID == id {
			found = true
			continue
		}
		kept = append(kept, conv)
	}
	if !found {
		return ErrNotFound
	}
	return s.write(kept)
}

// Export writes a single conversation as indented JSON to path.
func (s *Store) Export(id, path string) error {
	conv, err := s.Get(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import reads a JSON file and appends it as a new conversation after
// validating the shape. Arbitrary JSON is rejected rather than stored.
func (s *Store) Import(path string) (model.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to read import: %w", err)
	}
	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return model.Conversation{}, fmt.Errorf("failed to decode import: %w", err)
	}
	if err := validate(conv); err != nil {
		return model.Conversation{}, fmt.Errorf("invalid conversation file: %w", err)
	}
	conv.UpdatedAt = time.Now()

	conversations, err := s.List()
	if err != nil {
		return model.Conversation{}, err
	}
	if err := s.write(append(conversations, conv)); err != nil {
		return model.Conversation{}, err
	}
	return conv, nil
}

func (s *Store) write(conversations []model.Conversation) error {
	data, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("failed to encode conversations: %w", err)
	}
	if err := s.store.Set(listKey, string(data)); err != nil {
		return fmt.Errorf("failed to store conversations: %w", err)
	}
	return nil
}

// TitleFor derives a conversation title from the first user message,
// capped at 50 characters plus an ellipsis.
func TitleFor(messages []model.Message) string {
	for _, msg := range messages {
		if msg.Type != model.MessageUser {
			continue
		}
		runes := []rune(msg.Content)
		if len(runes) > titleMaxLength {
			runes = runes[:titleMaxLength]
		}
		return string(runes) + "..."
	}
	return "New Conversation"
}

func validate(conv model.Conversation) error {
	if conv.ID == "" {
		return fmt.Errorf("missing id")
	}
	if len(conv.Messages) == 0 {
		return fmt.Errorf("no messages")
	}
	for i, msg := range conv.Messages {
		if msg.Type != model.MessageUser && msg.Type != model.MessageBot {
			return fmt.Errorf("message %d has unknown type %q", i, msg.Type)
		}
		if msg.Content == "" {
			return fmt.Errorf("message %d has empty content", i)
		}
	}
	return nil
}
