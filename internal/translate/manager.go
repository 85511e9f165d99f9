package translate

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Backend is an online translation capability. A nil backend means the
// manager runs offline; the decision is made once at construction, not
// rediscovered per call.
type Backend interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Options bound the manager's use of its backend.
type Options struct {
	MaxCalls        int // backend call budget per manager lifetime
	MaxErrorStrikes int // consecutive failures before the backend is disabled
}

// DefaultOptions match the preprocessing defaults.
func DefaultOptions() Options {
	return Options{MaxCalls: 500, MaxErrorStrikes: 5}
}

// Manager resolves free-text ESG phrases to English through a layered
// pipeline: cache, seed dictionary, foreign-text heuristic, rate-limited
// backend, identity. Translation never fails; every layer degrades to
// passing the text through.
type Manager struct {
	store   Store
	backend Backend
	opts    Options

	callsMade int
	strikes   int
}

// NewManager builds a Manager around an injected cache store and an
// optional backend.
func NewManager(store Store, backend Backend, opts Options) *Manager {
	if opts.MaxCalls <= 0 {
		opts.MaxCalls = DefaultOptions().MaxCalls
	}
	if opts.MaxErrorStrikes <= 0 {
		opts.MaxErrorStrikes = DefaultOptions().MaxErrorStrikes
	}
	return &Manager{store: store, backend: backend, opts: opts}
}

// Translate resolves one text value to English, caching whatever it
// decides. Empty input returns empty.
func (m *Manager) Translate(ctx context.Context, text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return ""
	}

	if cached, ok := m.store.Get(t); ok {
		return cached
	}

	if mapped := seedLookup(t); mapped != "" {
		m.store.Put(t, mapped)
		return mapped
	}

	if !looksForeign(t) {
		m.store.Put(t, t)
		return t
	}

	if translated := m.translateOnline(ctx, t); translated != "" && translated != t {
		m.store.Put(t, translated)
		return translated
	}

	m.store.Put(t, t)
	return t
}

// Flush persists the underlying cache store.
func (m *Manager) Flush() error { return m.store.Flush() }

// CallsMade reports how many backend calls this manager has spent.
func (m *Manager) CallsMade() int { return m.callsMade }

func (m *Manager) translateOnline(ctx context.Context, text string) string {
	if m.backend == nil {
		return ""
	}
	if m.callsMade >= m.opts.MaxCalls {
		return ""
	}
	if m.strikes >= m.opts.MaxErrorStrikes {
		return ""
	}

	out, err := m.backend.Translate(ctx, text)
	if err != nil {
		m.strikes++
		zap.L().Warn("translation backend error",
			zap.Int("strike", m.strikes),
			zap.Error(err),
		)
		if m.strikes == m.opts.MaxErrorStrikes {
			zap.L().Warn("translation backend disabled for remainder of run")
		}
		return ""
	}

	m.callsMade++
	m.strikes = 0
	return strings.TrimSpace(out)
}

func seedLookup(s string) string {
	lower := strings.ToLower(s)
	if v, ok := seedExact[lower]; ok {
		return v
	}
	for _, e := range seedOrdered {
		if strings.Contains(lower, e.foreign) {
			return e.english
		}
	}
	return ""
}

var tokenRe = regexp.MustCompile(`[A-Za-zÀ-ÿ']+`)

// looksForeign reports whether text is worth sending to a backend: any
// non-ASCII codepoint, or any function word from a non-English language.
func looksForeign(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	for _, tok := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		if nonEnglishWords[tok] {
			return true
		}
	}
	return false
}
