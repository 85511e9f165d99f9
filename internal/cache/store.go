// Package cache persists preprocessing artifacts between runs: the merged
// record set, the company index, calibrated thresholds, the sanctions list
// and the translation memo, all in one SQLite file.
package cache

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
	"github.com/meridian-advisory/esg-screen/internal/sanctions"
	"github.com/meridian-advisory/esg-screen/internal/scorer"
)

// Version tags all artifacts; bump it when the record structure or
// scoring pipeline changes incompatibly so stale caches rebuild.
const Version = "v2"

// Artifact keys, versioned so a bump orphans the old rows.
const (
	keyRecords      = "records_" + Version
	keyCompanyIndex = "company_index_" + Version
	keyThresholds   = "thresholds_" + Version
	keySanctions    = "sanctions_" + Version
	keyMetadata     = "metadata_" + Version
)

// Store is the SQLite-backed artifact cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the cache database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS artifacts (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS translations (
	source     TEXT PRIMARY KEY,
	translated TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "cache: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SourceInfo fingerprints one input dataset for cache validation.
type SourceInfo struct {
	Path    string `json:"file_path,omitempty"`
	Size    int64  `json:"file_size"`
	ModTime int64  `json:"file_mtime,omitempty"`
	Hash    string `json:"data_hash,omitempty"`
}

// FileInfo fingerprints a dataset file by path, size and mtime.
func FileInfo(path string) (SourceInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return SourceInfo{}, eris.Wrapf(err, "cache: stat %s", path)
	}
	return SourceInfo{
		Path:    path,
		Size:    st.Size(),
		ModTime: st.ModTime().Unix(),
	}, nil
}

// BytesInfo fingerprints in-memory dataset bytes (uploads, downloads) by
// size and content hash.
func BytesInfo(data []byte) SourceInfo {
	sum := md5.Sum(data)
	return SourceInfo{
		Size: int64(len(data)),
		Hash: hex.EncodeToString(sum[:]),
	}
}

// Equal reports whether two fingerprints identify the same source state.
func (si SourceInfo) Equal(other SourceInfo) bool {
	return si.Path == other.Path &&
		si.Size == other.Size &&
		si.ModTime == other.ModTime &&
		si.Hash == other.Hash
}

// Metadata describes a saved cache generation.
type Metadata struct {
	Version      string      `json:"cache_version"`
	CreatedAt    int64       `json:"created_at"`
	Primary      SourceInfo  `json:"primary_source"`
	Secondary    *SourceInfo `json:"secondary_source,omitempty"`
	RecordCount  int         `json:"record_count"`
	CompanyCount int         `json:"company_count"`
}

// Artifacts are the complete preprocessing results for one cache
// generation.
type Artifacts struct {
	Records      []dataset.Record
	CompanyIndex map[string][]int
	Thresholds   scorer.Thresholds
	Sanctions    *sanctions.Snapshot
	Metadata     Metadata
}

// IsValid reports whether the cached generation can be reused for the
// given sources. Any read or decode problem invalidates the cache rather
// than erroring; the caller just rebuilds.
func (s *Store) IsValid(ctx context.Context, primary SourceInfo, secondary *SourceInfo, maxAge time.Duration) bool {
	meta, err := s.loadMetadata(ctx)
	if err != nil {
		zap.L().Debug("cache metadata unavailable", zap.Error(err))
		return false
	}

	if meta.Version != Version {
		zap.L().Info("cache version mismatch",
			zap.String("cached", meta.Version),
			zap.String("current", Version),
		)
		return false
	}

	if !meta.Primary.Equal(primary) {
		zap.L().Info("primary dataset changed, cache invalid")
		return false
	}

	// The sanctions source is optional: absent both now and at save time
	// is fine, but appearing, disappearing or changing invalidates.
	switch {
	case secondary == nil && meta.Secondary == nil:
	case secondary == nil || meta.Secondary == nil:
		zap.L().Info("sanctions dataset presence changed, cache invalid")
		return false
	case !meta.Secondary.Equal(*secondary):
		zap.L().Info("sanctions dataset changed, cache invalid")
		return false
	}

	age := time.Since(time.Unix(meta.CreatedAt, 0))
	if age > maxAge {
		zap.L().Info("cache too old",
			zap.Duration("age", age),
			zap.Duration("max_age", maxAge),
		)
		return false
	}

	for _, key := range []string{keyRecords, keyCompanyIndex, keyThresholds} {
		if _, err := s.getArtifact(ctx, key); err != nil {
			zap.L().Warn("cache artifact missing", zap.String("key", key), zap.Error(err))
			return false
		}
	}
	return true
}

// Save writes a full cache generation in one transaction, metadata last.
// Rows from older versions are removed first.
func (s *Store) Save(ctx context.Context, arts *Artifacts) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "cache: begin save")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM artifacts WHERE key NOT IN (?, ?, ?, ?, ?)`,
		keyRecords, keyCompanyIndex, keyThresholds, keySanctions, keyMetadata,
	); err != nil {
		return eris.Wrap(err, "cache: remove stale artifacts")
	}

	put := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return eris.Wrapf(err, "cache: marshal %s", key)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO artifacts (key, value, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, created_at = excluded.created_at`,
			key, string(data), time.Now().UTC(),
		)
		return eris.Wrapf(err, "cache: put %s", key)
	}

	if err := put(keyRecords, arts.Records); err != nil {
		return err
	}
	if err := put(keyCompanyIndex, arts.CompanyIndex); err != nil {
		return err
	}
	if err := put(keyThresholds, arts.Thresholds); err != nil {
		return err
	}
	if arts.Sanctions != nil {
		if err := put(keySanctions, arts.Sanctions); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM artifacts WHERE key = ?`, keySanctions); err != nil {
			return eris.Wrap(err, "cache: remove sanctions artifact")
		}
	}

	meta := arts.Metadata
	meta.Version = Version
	meta.RecordCount = len(arts.Records)
	meta.CompanyCount = len(arts.CompanyIndex)
	if meta.CreatedAt == 0 {
		meta.CreatedAt = time.Now().Unix()
	}
	if err := put(keyMetadata, meta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "cache: commit save")
	}

	zap.L().Info("cache saved",
		zap.Int("records", meta.RecordCount),
		zap.Int("companies", meta.CompanyCount),
	)
	return nil
}

// Load reads back the full cache generation.
func (s *Store) Load(ctx context.Context) (*Artifacts, error) {
	arts := &Artifacts{}

	if err := s.getJSON(ctx, keyRecords, &arts.Records); err != nil {
		return nil, err
	}
	if err := s.getJSON(ctx, keyCompanyIndex, &arts.CompanyIndex); err != nil {
		return nil, err
	}
	if err := s.getJSON(ctx, keyThresholds, &arts.Thresholds); err != nil {
		return nil, err
	}
	if err := s.getJSON(ctx, keyMetadata, &arts.Metadata); err != nil {
		return nil, err
	}

	var snap sanctions.Snapshot
	err := s.getJSON(ctx, keySanctions, &snap)
	switch {
	case err == nil:
		arts.Sanctions = &snap
	case eris.Is(err, errArtifactNotFound):
		// no sanctions dataset in this generation
	default:
		return nil, err
	}

	zap.L().Info("cache loaded",
		zap.Int("records", len(arts.Records)),
		zap.Int("companies", len(arts.CompanyIndex)),
	)
	return arts, nil
}

// Clear removes all cached artifacts. Clearing an empty cache is not an
// error. The translation memo survives; use ClearTranslations for that.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM artifacts`)
	return eris.Wrap(err, "cache: clear")
}

// ClearTranslations empties the translation memo.
func (s *Store) ClearTranslations(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM translations`)
	return eris.Wrap(err, "cache: clear translations")
}

// Info summarizes the cache state for display.
type Info struct {
	Exists       bool     `json:"exists"`
	Path         string   `json:"path"`
	SizeBytes    int64    `json:"size_bytes"`
	Metadata     Metadata `json:"metadata,omitempty"`
	Translations int      `json:"translations"`
}

// Info reports what the cache currently holds.
func (s *Store) Info(ctx context.Context) (Info, error) {
	info := Info{Path: s.path}

	if st, err := os.Stat(s.path); err == nil {
		info.SizeBytes = st.Size()
	}

	meta, err := s.loadMetadata(ctx)
	if err == nil {
		info.Exists = true
		info.Metadata = meta
	} else if !eris.Is(err, errArtifactNotFound) {
		return info, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`)
	if err := row.Scan(&info.Translations); err != nil {
		return info, eris.Wrap(err, "cache: count translations")
	}
	return info, nil
}

var errArtifactNotFound = eris.New("cache: artifact not found")

// loadMetadata reads the metadata artifact of the current generation.
// A missing artifact surfaces as errArtifactNotFound.
func (s *Store) loadMetadata(ctx context.Context) (Metadata, error) {
	var meta Metadata
	if err := s.getJSON(ctx, keyMetadata, &meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func (s *Store) getArtifact(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM artifacts WHERE key = ?`, key)

	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", eris.Wrapf(errArtifactNotFound, "key %s", key)
	}
	if err != nil {
		return "", eris.Wrapf(err, "cache: get %s", key)
	}
	return value, nil
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	value, err := s.getArtifact(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return eris.Wrapf(err, "cache: unmarshal %s", key)
	}
	return nil
}
