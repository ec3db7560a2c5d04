package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()
}

func TestStore_SaveAndGetBuild(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	progress := 150
	pct := 50
	b := &Build{
		BuiltAt:        time.Now().Truncate(time.Second),
		Username:       "alice",
		CurrentlyCount: 1,
		FinishedCount:  42,
		FirstTitle:     "Middlemarch",
		FirstProgress:  &progress,
		FirstPct:       &pct,
	}

	err = s.SaveBuild(b)
	require.NoError(t, err)
	assert.NotZero(t, b.ID, "Build ID should be set after save")

	builds, err := s.GetBuilds(QueryOptions{})
	require.NoError(t, err)
	require.Len(t, builds, 1)

	got := builds[0]
	assert.Equal(t, b.BuiltAt.Unix(), got.BuiltAt.Unix())
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 1, got.CurrentlyCount)
	assert.Equal(t, 42, got.FinishedCount)
	assert.Equal(t, "Middlemarch", got.FirstTitle)
	require.NotNil(t, got.FirstProgress)
	assert.Equal(t, 150, *got.FirstProgress)
	require.NotNil(t, got.FirstPct)
	assert.Equal(t, 50, *got.FirstPct)
}

func TestStore_NullableFields(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	// Nothing currently being read: no first-book columns.
	b := &Build{BuiltAt: time.Now(), Username: "alice"}
	require.NoError(t, s.SaveBuild(b))

	builds, err := s.GetBuilds(QueryOptions{})
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Nil(t, builds[0].FirstProgress)
	assert.Nil(t, builds[0].FirstPct)
}

func TestStore_GetBuildsNewestFirst(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	base := time.Now().Add(-3 * time.Hour)
	for i := 0; i < 3; i++ {
		b := &Build{BuiltAt: base.Add(time.Duration(i) * time.Hour), FinishedCount: i}
		require.NoError(t, s.SaveBuild(b))
	}

	builds, err := s.GetBuilds(QueryOptions{})
	require.NoError(t, err)
	require.Len(t, builds, 3)
	assert.Equal(t, 2, builds[0].FinishedCount)
	assert.Equal(t, 0, builds[2].FinishedCount)
}

func TestStore_GetBuildsLimit(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveBuild(&Build{BuiltAt: time.Now()}))
	}

	builds, err := s.GetBuilds(QueryOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, builds, 2)
}

func TestStore_GetBuildsSince(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	old := &Build{BuiltAt: time.Now().Add(-48 * time.Hour), Username: "old"}
	recent := &Build{BuiltAt: time.Now(), Username: "recent"}
	require.NoError(t, s.SaveBuild(old))
	require.NoError(t, s.SaveBuild(recent))

	since := time.Now().Add(-24 * time.Hour).Unix()
	builds, err := s.GetBuilds(QueryOptions{SinceTime: &since})
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "recent", builds[0].Username)
}
