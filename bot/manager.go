// Package bot runs Cashflow sessions in chats: it owns one game per chat,
// swaps the chat-scoped handler sets as a session moves through its phases
// and tears everything down when a session goes idle.
package bot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m3rciful/cashflowbot/core/logger"
	tg "github.com/m3rciful/cashflowbot/core/telegram"
	"github.com/m3rciful/cashflowbot/core/telegram/callbacks"
	"github.com/m3rciful/cashflowbot/game"
	"github.com/m3rciful/cashflowbot/journal"
	"github.com/m3rciful/cashflowbot/render"
	"log/slog"

	"github.com/google/uuid"
)

const (
	defaultSessionTimeout = 60 * time.Minute
	defaultHistoryLimit   = 10
)

// Transport is the outbound chat surface used by the flows.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts tg.SendOptions) (tg.Message, error)
	SendPhoto(ctx context.Context, chatID int64, photo tg.Photo, caption string, opts tg.SendOptions) (tg.Message, error)
	SendDice(ctx context.Context, chatID int64) (tg.Message, error)
	EditButtons(ctx context.Context, chatID int64, messageID int, kb tg.Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Scheduler runs best-effort cosmetic calls off the handler path.
type Scheduler interface {
	Enqueue(ctx context.Context, action, endpoint string, run func() error) error
	EnqueueAfter(ctx context.Context, delay time.Duration, action, endpoint string, run func() error)
}

// Options configures a Manager. Zero durations for RollSettle and
// DiceCleanup mean no wait.
type Options struct {
	SessionTimeout time.Duration
	RollSettle     time.Duration
	DiceCleanup    time.Duration
	HistoryLimit   int

	Boards    render.BoardRenderer
	Cards     render.CardRenderer
	Cache     *render.Cache
	Journal   journal.Journal
	Scheduler Scheduler

	// NewGame builds the game of a fresh session.
	NewGame func() *game.Game
}

// SessionInfo is a read-only view of an active session.
type SessionInfo struct {
	ChatID  int64
	GameID  uuid.UUID
	Players int
	Started bool
	Opened  time.Time
	Idle    time.Duration
}

type session struct {
	chatID     int64
	game       *game.Game
	opened     time.Time
	lastActive time.Time

	timer *time.Timer
	// gen invalidates timers armed before the latest activity.
	gen uint64
}

// Manager owns the sessions of every chat.
type Manager struct {
	transport Transport
	registry  *tg.Registry
	opts      Options

	mu       sync.Mutex
	sessions map[int64]*session
	closed   bool
}

// New creates a Manager. Missing collaborators fall back to in-memory or
// text-only defaults.
func New(transport Transport, registry *tg.Registry, opts Options) *Manager {
	if opts.SessionTimeout <= 0 {
		opts.SessionTimeout = defaultSessionTimeout
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.Boards == nil {
		opts.Boards = render.NewMapDrawer("", 0, 0)
	}
	if opts.Cards == nil {
		opts.Cards = render.NewCardDrawer("")
	}
	if opts.Cache == nil {
		opts.Cache = render.NewCache()
	}
	if opts.Journal == nil {
		opts.Journal = journal.NewMemory(0)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = inlineScheduler{}
	}
	if opts.NewGame == nil {
		opts.NewGame = func() *game.Game { return game.New() }
	}
	if registry == nil {
		registry = tg.NewRegistry()
	}
	return &Manager{
		transport: transport,
		registry:  registry,
		opts:      opts,
		sessions:  make(map[int64]*session),
	}
}

// Touch restarts the idle timer of chatID. Chats without a session are ignored.
func (m *Manager) Touch(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok || m.closed {
		return
	}
	s.lastActive = time.Now()
	m.armLocked(s)
}

func (m *Manager) armLocked(s *session) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(m.opts.SessionTimeout, func() { m.expire(s, gen) })
}

// expire ends s unless it was replaced or touched after the timer was armed.
func (m *Manager) expire(s *session, gen uint64) {
	m.mu.Lock()
	if m.sessions[s.chatID] != s || s.gen != gen {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, s.chatID)
	removed := m.registry.RemoveAll(s.chatID)
	m.mu.Unlock()

	ctx := logger.WithGame(logger.Background(), s.game.ID().String())
	logger.Info(ctx, "session", "session.expired",
		slog.Int64("chat_id", s.chatID),
		slog.Int("handlers", removed),
	)
	m.record(ctx, s.chatID, s.game, journal.EventSessionClosed, 0, "timeout")
	if _, err := m.transport.SendMessage(ctx, s.chatID, msgSessionEnded, tg.SendOptions{}); err != nil {
		logger.Warn(ctx, "session", "session.notice_failed",
			slog.Int64("chat_id", s.chatID),
			slog.String("err", err.Error()),
		)
	}
}

// open starts a fresh session in chatID and installs the start menu
// handlers. It replaces the running session only when that session's game is
// prev; otherwise it reports false and changes nothing.
func (m *Manager) open(ctx context.Context, chatID int64, prev *game.Game) (*game.Game, bool) {
	g := m.opts.NewGame()
	now := time.Now()
	s := &session{chatID: chatID, game: g, opened: now, lastActive: now}

	m.mu.Lock()
	cur, exists := m.sessions[chatID]
	if exists && cur.game != prev {
		m.mu.Unlock()
		return nil, false
	}
	if exists {
		if cur.timer != nil {
			cur.timer.Stop()
		}
		cur.gen++
	}
	removed := m.registry.RemoveAll(chatID)
	m.sessions[chatID] = s
	m.installLocked(chatID, g, menuActions)
	if !m.closed {
		m.armLocked(s)
	}
	m.mu.Unlock()

	if exists {
		prevCtx := logger.WithGame(ctx, prev.ID().String())
		logger.Info(prevCtx, "session", "session.closed",
			slog.Int64("chat_id", chatID),
			slog.String("reason", "restart"),
			slog.Int("handlers", removed),
		)
		m.record(prevCtx, chatID, prev, journal.EventSessionClosed, 0, "restart")
	}
	ctx = logger.WithGame(ctx, g.ID().String())
	logger.Info(ctx, "session", "session.opened", slog.Int64("chat_id", chatID))
	m.record(ctx, chatID, g, journal.EventSessionOpened, 0, "")
	return g, true
}

// close ends the session of chatID if g is still its game.
func (m *Manager) close(ctx context.Context, chatID int64, g *game.Game, reason string) bool {
	m.mu.Lock()
	s, ok := m.sessions[chatID]
	if !ok || s.game != g {
		m.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	delete(m.sessions, chatID)
	removed := m.registry.RemoveAll(chatID)
	m.mu.Unlock()

	logger.Info(ctx, "session", "session.closed",
		slog.Int64("chat_id", chatID),
		slog.String("reason", reason),
		slog.Int("handlers", removed),
	)
	m.record(ctx, chatID, g, journal.EventSessionClosed, 0, reason)
	return true
}

// lookup returns the game of chatID.
func (m *Manager) lookup(chatID int64) (*game.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return nil, false
	}
	return s.game, true
}

func (m *Manager) isCurrent(chatID int64, g *game.Game) bool {
	cur, ok := m.lookup(chatID)
	return ok && cur == g
}

// install registers actions for chatID bound to g, as long as g is still the chat's game.
func (m *Manager) install(chatID int64, g *game.Game, actions []string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[chatID]; !ok || s.game != g {
		return false
	}
	m.installLocked(chatID, g, actions)
	return true
}

func (m *Manager) installLocked(chatID int64, g *game.Game, actions []string) {
	for _, action := range actions {
		h, ok := m.gameHandler(action)
		if !ok {
			continue
		}
		key := callbacks.NewKey(action, chatID)
		if err := m.registry.Install(key, m.bind(chatID, g, h)); err != nil {
			// already bound to g by an earlier install; keep the first one
			logger.Debug(logger.Background(), "session", "handler.install",
				slog.String("key", key.String()),
				slog.String("err", err.Error()),
			)
		}
	}
}

// uninstall removes handlers whose action starts with prefix.
func (m *Manager) uninstall(chatID int64, g *game.Game, prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[chatID]; !ok || s.game != g {
		return
	}
	m.registry.RemoveByPrefix(chatID, prefix)
}

// Sessions lists the active sessions ordered by chat id.
func (m *Manager) Sessions() []SessionInfo {
	now := time.Now()
	m.mu.Lock()
	out := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, SessionInfo{
			ChatID:  s.chatID,
			GameID:  s.game.ID(),
			Players: len(s.game.Players()),
			Started: s.game.IsStarted(),
			Opened:  s.opened,
			Idle:    now.Sub(s.lastActive),
		})
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out
}

// Stop cancels every idle timer. Sessions stay in memory until the process exits.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, s := range m.sessions {
		if s.timer != nil {
			s.timer.Stop()
		}
		s.gen++
	}
	logger.Info(logger.Background(), "session", "sessions.stopped", slog.Int("sessions", len(m.sessions)))
}

func (m *Manager) record(ctx context.Context, chatID int64, g *game.Game, event string, playerID int64, detail string) {
	err := m.opts.Journal.Record(ctx, journal.Entry{
		GameID:   g.ID(),
		ChatID:   chatID,
		Event:    event,
		PlayerID: playerID,
		Detail:   detail,
	})
	if err != nil {
		logger.Warn(ctx, "journal", "journal.record_failed",
			slog.String("event", event),
			slog.String("err", err.Error()),
		)
	}
}

// inlineScheduler runs cosmetic calls on the caller's goroutine.
type inlineScheduler struct{}

func (inlineScheduler) Enqueue(_ context.Context, _, _ string, run func() error) error {
	return run()
}

func (inlineScheduler) EnqueueAfter(_ context.Context, delay time.Duration, _, _ string, run func() error) {
	if delay <= 0 {
		_ = run()
		return
	}
	time.AfterFunc(delay, func() { _ = run() })
}
