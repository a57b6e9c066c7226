package telegram

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/m3rciful/cashflowbot/core/logger"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
	"github.com/m3rciful/cashflowbot/core/telegram/commands"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrHandlerNotFound is returned when removing a handler that is not installed.
	ErrHandlerNotFound = errors.New("telegram: handler not found")
	// ErrDuplicateHandler is returned when a key is already installed for the chat.
	ErrDuplicateHandler = errors.New("telegram: handler already installed")
)

// Registry holds global bot commands and the chat-scoped handler sets.
type Registry struct {
	commands map[string]commands.Command

	mu       sync.RWMutex
	handlers map[int64]map[callbacks.Key]ChatHandler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		handlers: make(map[int64]map[callbacks.Key]ChatHandler),
	}
}

// RegisterCommand adds a new command.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.Warn(logger.Background(), "tg.wire", "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.Warn(logger.Background(), "tg.wire", "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "no_slash_prefix"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.Warn(logger.Background(), "tg.wire", "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// ListCommands returns a slice of tele.Command, optionally filtering out hidden and admin-only commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand searches for a command by name or its aliases and returns the canonical key with metadata if found.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// Install records h under key for key.ChatID. Keys are unique per chat.
func (r *Registry) Install(key callbacks.Key, h ChatHandler) error {
	if h == nil || key.Action == "" {
		return errors.New("telegram: invalid handler registration")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.handlers[key.ChatID]
	if !ok {
		set = make(map[callbacks.Key]ChatHandler)
		r.handlers[key.ChatID] = set
	}
	if _, exists := set[key]; exists {
		return ErrDuplicateHandler
	}
	set[key] = h
	return nil
}

// Remove unregisters a single handler.
func (r *Registry) Remove(key callbacks.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.handlers[key.ChatID]
	if _, ok := set[key]; !ok {
		return ErrHandlerNotFound
	}
	delete(set, key)
	if len(set) == 0 {
		delete(r.handlers, key.ChatID)
	}
	return nil
}

// RemoveAll unregisters every handler of chatID and returns how many were removed.
func (r *Registry) RemoveAll(chatID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.handlers[chatID])
	delete(r.handlers, chatID)
	return n
}

// RemoveByPrefix unregisters the handlers of chatID whose action starts with prefix.
func (r *Registry) RemoveByPrefix(chatID int64, prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.handlers[chatID]
	n := 0
	for key := range set {
		if key.HasPrefix(prefix) {
			delete(set, key)
			n++
		}
	}
	if len(set) == 0 {
		delete(r.handlers, chatID)
	}
	return n
}

// Lookup returns the handler installed under key.
func (r *Registry) Lookup(key callbacks.Key) (ChatHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[key.ChatID][key]
	return h, ok
}

// Active lists the keys installed for chatID, sorted for diagnostics.
func (r *Registry) Active(chatID int64) []callbacks.Key {
	r.mu.RLock()
	keys := make([]callbacks.Key, 0, len(r.handlers[chatID]))
	for key := range r.handlers[chatID] {
		keys = append(keys, key)
	}
	r.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Chats returns the ids of chats with at least one installed handler.
func (r *Registry) Chats() []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	commands := reg.ListCommands(true)
	if err := bot.SetCommands(commands); err != nil {
		logger.Error(logger.Background(), "tg.wire", "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
