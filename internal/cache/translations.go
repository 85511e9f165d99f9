package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// TranslationStore is the SQLite-backed translation memo. Reads come from
// an in-memory copy loaded at open; writes buffer until Flush so a batch
// run does one transaction instead of one per phrase.
type TranslationStore struct {
	store *Store

	mu      sync.Mutex
	entries map[string]string
	dirty   map[string]string
}

// Translations loads the translation memo from the cache database.
func (s *Store) Translations(ctx context.Context) (*TranslationStore, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, translated FROM translations`)
	if err != nil {
		return nil, eris.Wrap(err, "cache: load translations")
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var source, translated string
		if err := rows.Scan(&source, &translated); err != nil {
			return nil, eris.Wrap(err, "cache: scan translation")
		}
		entries[source] = translated
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "cache: iterate translations")
	}

	return &TranslationStore{
		store:   s,
		entries: entries,
		dirty:   make(map[string]string),
	}, nil
}

// Get returns the memoized translation for source, if any.
func (t *TranslationStore) Get(source string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[source]
	return v, ok
}

// Put memoizes a translation. It is persisted on the next Flush.
func (t *TranslationStore) Put(source, translated string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[source] = translated
	t.dirty[source] = translated
}

// Len reports how many translations are memoized.
func (t *TranslationStore) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Flush persists buffered writes in one transaction.
func (t *TranslationStore) Flush() error {
	t.mu.Lock()
	pending := t.dirty
	t.dirty = make(map[string]string)
	t.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "cache: begin translation flush")
	}
	defer tx.Rollback()

	for source, translated := range pending {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO translations (source, translated, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(source) DO UPDATE SET translated = excluded.translated`,
			source, translated, time.Now().UTC(),
		); err != nil {
			return eris.Wrap(err, "cache: upsert translation")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "cache: commit translation flush")
	}

	zap.L().Debug("translation memo flushed", zap.Int("written", len(pending)))
	return nil
}
