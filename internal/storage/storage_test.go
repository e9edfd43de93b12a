package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adewaleolaore/youtube-arsenal/internal/logging"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "db", "test.db"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveVideo_UpsertsPerUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveVideo(ctx, ports.VideoRecord{UserID: 1, VideoID: "abc", Title: "first", Transcript: "t1"}))
	require.NoError(t, s.UpdateAnalysis(ctx, 1, "abc", ports.Analysis{Keywords: []string{"go", "clips"}}))
	require.NoError(t, s.SaveVideo(ctx, ports.VideoRecord{UserID: 1, VideoID: "abc", Title: "second", Transcript: "t2"}))
	require.NoError(t, s.SaveVideo(ctx, ports.VideoRecord{UserID: 2, VideoID: "abc", Title: "other user"}))

	v, err := s.GetVideo(ctx, 1, "abc")
	require.NoError(t, err)
	assert.Equal(t, "second", v.Title)
	assert.Equal(t, "t2", v.Transcript)
	assert.Equal(t, []string{"go", "clips"}, v.Keywords, "re-saving must keep generated fields")

	st, err := s.Stats(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.TotalVideos)
}

func TestUpdateAnalysis(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveVideo(ctx, ports.VideoRecord{UserID: 1, VideoID: "abc", Title: "t"}))

	summary := "a summary"
	require.NoError(t, s.UpdateAnalysis(ctx, 1, "abc", ports.Analysis{Summary: &summary}))
	desc := "a description"
	require.NoError(t, s.UpdateAnalysis(ctx, 1, "abc", ports.Analysis{GeneratedDescription: &desc}))

	v, err := s.GetVideo(ctx, 1, "abc")
	require.NoError(t, err)
	assert.Equal(t, summary, v.Summary)
	assert.Equal(t, desc, v.GeneratedDescription)

	err = s.UpdateAnalysis(ctx, 1, "missing", ports.Analysis{Summary: &summary})
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.NoError(t, s.UpdateAnalysis(ctx, 1, "missing", ports.Analysis{}))
}

func TestReplaceClips_Overwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveVideo(ctx, ports.VideoRecord{UserID: 1, VideoID: "abc", Title: "t"}))

	first := []ports.ClipRecord{
		{Title: "b", StartTime: 30, EndTime: 75, HookScore: 2},
		{Title: "a", StartTime: 0, EndTime: 45, HookScore: 4},
	}
	require.NoError(t, s.ReplaceClips(ctx, 1, "abc", first))
	second := []ports.ClipRecord{{Title: "only", StartTime: 10, EndTime: 20, HookScore: 1, TranscriptExcerpt: "x"}}
	require.NoError(t, s.ReplaceClips(ctx, 1, "abc", second))

	v, err := s.GetVideo(ctx, 1, "abc")
	require.NoError(t, err)
	require.Len(t, v.Clips, 1)
	assert.Equal(t, "only", v.Clips[0].Title)
	assert.Equal(t, "x", v.Clips[0].TranscriptExcerpt)

	require.NoError(t, s.ReplaceClips(ctx, 1, "abc", nil))
	st, err := s.Stats(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, st.TotalClips)

	assert.ErrorIs(t, s.ReplaceClips(ctx, 1, "nope", second), ports.ErrNotFound)
}

func TestListVideos_NewestFirstWithClips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"v1", "v2", "v3"} {
		require.NoError(t, s.SaveVideo(ctx, ports.VideoRecord{UserID: 7, VideoID: id, Title: id}))
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, s.ReplaceClips(ctx, 7, "v2", []ports.ClipRecord{
		{Title: "late", StartTime: 50, EndTime: 60},
		{Title: "early", StartTime: 5, EndTime: 15},
	}))

	got, err := s.ListVideos(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "v3", got[0].VideoID)
	assert.Equal(t, "v2", got[1].VideoID)
	require.Len(t, got[1].Clips, 2)
	assert.Equal(t, "early", got[1].Clips[0].Title)

	none, err := s.ListVideos(ctx, 99, 20)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetVideo_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetVideo(context.Background(), 1, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, " alice ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "s3cret", u.Password)

	_, err = s.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUserExists)
	assert.NoError(t, s.EnsureUser(ctx, "alice", "other"))

	got, err := s.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "bob", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.CreateUser(ctx, "", "x")
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "x", logging.Discard())
	assert.Error(t, err)
}
