package session

import (
	"time"

	"document-rag-client/internal/models"
)

// ConversationLog is the ordered record of exchanged messages. Entries are only appended;
// Clear drops them all but never rewinds the sequence counter.
// It is not safe for concurrent use; the Controller serializes access.
type ConversationLog struct {
	entries []models.ConversationEntry
	lastSeq uint64
	now     func() time.Time
}

func NewConversationLog(now func() time.Time) *ConversationLog {
	if now == nil {
		now = time.Now
	}
	return &ConversationLog{now: now}
}

func (l *ConversationLog) Append(role models.Role, content, sources string) models.ConversationEntry {
	l.lastSeq++
	entry := models.ConversationEntry{
		Sequence:  l.lastSeq,
		Role:      role,
		Content:   content,
		Sources:   sources,
		CreatedAt: l.now(),
	}
	l.entries = append(l.entries, entry)
	return entry
}

func (l *ConversationLog) Clear() {
	l.entries = nil
}

func (l *ConversationLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log.
func (l *ConversationLog) Entries() []models.ConversationEntry {
	out := make([]models.ConversationEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
