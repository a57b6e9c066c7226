package journal

import (
	"context"
	"sync"
)

// Memory keeps the last entries of every chat in process memory.
type Memory struct {
	mu    sync.Mutex
	limit int
	chats map[int64][]Entry
}

// NewMemory returns a journal holding at most limit entries per chat.
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = 50
	}
	return &Memory{limit: limit, chats: make(map[int64][]Entry)}
}

// Record appends e, dropping the oldest entry of the chat when full.
func (m *Memory) Record(_ context.Context, e Entry) error {
	e = stamp(e)
	m.mu.Lock()
	defer m.mu.Unlock()
	list := append(m.chats[e.ChatID], e)
	if len(list) > m.limit {
		list = append([]Entry(nil), list[len(list)-m.limit:]...)
	}
	m.chats[e.ChatID] = list
	return nil
}

// Recent returns up to limit entries of chatID, newest first.
func (m *Memory) Recent(_ context.Context, chatID int64, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.chats[chatID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
