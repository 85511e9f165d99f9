package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
	"github.com/meridian-advisory/esg-screen/internal/sanctions"
	"github.com/meridian-advisory/esg-screen/internal/scorer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "esg_cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testArtifacts() *Artifacts {
	snap := sanctions.NewFromList([]string{"Acme Construction Ltd."}).Snapshot(time.Now().Unix())
	return &Artifacts{
		Records: []dataset.Record{
			{CompanyGroup: "Vedanta Resources", CompanyGroupNormalized: "vedanta resources", RowScore: 2.5},
			{CompanyGroup: "Vedanta Resources", CompanyGroupNormalized: "vedanta resources", RowScore: 1.0},
		},
		CompanyIndex: map[string][]int{"vedanta resources": {0, 1}},
		Thresholds:   scorer.Thresholds{P50: 1.2, P80: 2.4},
		Sanctions:    &snap,
		Metadata: Metadata{
			Primary: SourceInfo{Path: "/data/exclusions.xlsx", Size: 1000, ModTime: 1700000000},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testArtifacts()))

	got, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Len(t, got.Records, 2)
	assert.Equal(t, "Vedanta Resources", got.Records[0].CompanyGroup)
	assert.Equal(t, []int{0, 1}, got.CompanyIndex["vedanta resources"])
	assert.Equal(t, scorer.Thresholds{P50: 1.2, P80: 2.4}, got.Thresholds)
	require.NotNil(t, got.Sanctions)
	assert.Equal(t, []string{"Acme Construction Ltd."}, got.Sanctions.Entities)
	assert.Equal(t, Version, got.Metadata.Version)
	assert.Equal(t, 2, got.Metadata.RecordCount)
	assert.Equal(t, 1, got.Metadata.CompanyCount)
	assert.NotZero(t, got.Metadata.CreatedAt)
}

func TestLoad_EmptyCache(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errArtifactNotFound)
}

func TestSave_WithoutSanctions(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	arts := testArtifacts()
	arts.Sanctions = nil
	require.NoError(t, s.Save(ctx, arts))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.Sanctions)
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	dataFile := filepath.Join(t.TempDir(), "exclusions.xlsx")
	require.NoError(t, os.WriteFile(dataFile, []byte("payload"), 0o644))
	primary, err := FileInfo(dataFile)
	require.NoError(t, err)

	arts := testArtifacts()
	arts.Metadata.Primary = primary
	arts.Sanctions = nil
	require.NoError(t, s.Save(ctx, arts))

	maxAge := 365 * 24 * time.Hour

	assert.True(t, s.IsValid(ctx, primary, nil, maxAge))

	t.Run("source content changed", func(t *testing.T) {
		require.NoError(t, os.WriteFile(dataFile, []byte("different payload"), 0o644))
		changed, err := FileInfo(dataFile)
		require.NoError(t, err)
		assert.False(t, s.IsValid(ctx, changed, nil, maxAge))
	})

	t.Run("secondary appeared", func(t *testing.T) {
		secondary := SourceInfo{Path: "/data/sanctions.xlsx", Size: 10}
		assert.False(t, s.IsValid(ctx, primary, &secondary, maxAge))
	})

	t.Run("expired", func(t *testing.T) {
		assert.False(t, s.IsValid(ctx, primary, nil, time.Nanosecond))
	})
}

func TestIsValid_SecondaryTracked(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	secondary := SourceInfo{Path: "/data/sanctions.xlsx", Size: 10, ModTime: 1700000000}
	arts := testArtifacts()
	arts.Metadata.Secondary = &secondary
	require.NoError(t, s.Save(ctx, arts))

	maxAge := 365 * 24 * time.Hour
	primary := arts.Metadata.Primary

	assert.True(t, s.IsValid(ctx, primary, &secondary, maxAge))

	changed := secondary
	changed.Size = 20
	assert.False(t, s.IsValid(ctx, primary, &changed, maxAge))

	// Secondary disappeared since the cache was built.
	assert.False(t, s.IsValid(ctx, primary, nil, maxAge))
}

func TestIsValid_EmptyCache(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	assert.False(t, s.IsValid(context.Background(), SourceInfo{}, nil, time.Hour))
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testArtifacts()))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Load(ctx)
	assert.Error(t, err)

	// Clearing an empty cache is fine.
	require.NoError(t, s.Clear(ctx))
}

func TestInfo(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	info, err := s.Info(ctx)
	require.NoError(t, err)
	assert.False(t, info.Exists)

	require.NoError(t, s.Save(ctx, testArtifacts()))

	info, err = s.Info(ctx)
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, 2, info.Metadata.RecordCount)
	assert.Positive(t, info.SizeBytes)
}

func TestBytesInfo(t *testing.T) {
	t.Parallel()

	a := BytesInfo([]byte("hello"))
	b := BytesInfo([]byte("hello"))
	c := BytesInfo([]byte("world"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, int64(5), a.Size)
	assert.NotEmpty(t, a.Hash)
}

func TestFileInfo_Missing(t *testing.T) {
	t.Parallel()

	_, err := FileInfo(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
