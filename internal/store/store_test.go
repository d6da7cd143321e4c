// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "importer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSavePostRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SavePost(ctx, Post{
		Title:      "Folic Acid",
		Content:    "<p>body</p>",
		Excerpt:    "teaser",
		Status:     "publish",
		AuthorID:   2,
		Meta:       map[string]string{"pubmed_pmid": "11111"},
		Categories: []string{"Hamilelik"},
		Tags:       []string{"Pregnancy", "Folic Acid"},
	})
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Folic Acid", got.Title)
	assert.Equal(t, "publish", got.Status)
	assert.Equal(t, int64(2), got.AuthorID)
	assert.Equal(t, "11111", got.Meta["pubmed_pmid"])
	assert.Equal(t, []string{"Hamilelik"}, got.Categories)
	assert.Equal(t, []string{"Pregnancy", "Folic Acid"}, got.Tags)
}

func TestSavePostDefaults(t *testing.T) {
	s := testStore(t)

	id, err := s.SavePost(context.Background(), Post{Title: "T", Content: "c"})
	require.NoError(t, err)

	got, err := s.GetPost(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Status)
	assert.Equal(t, int64(1), got.AuthorID)
}

func TestUpdatePostContent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SavePost(ctx, Post{Title: "T", Content: "old",
		Meta: map[string]string{"a": "1"}})
	require.NoError(t, err)

	err = s.UpdatePostContent(ctx, id, "new", map[string]string{"a": "2", "b": "3"})
	require.NoError(t, err)

	got, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)
	assert.Equal(t, "2", got.Meta["a"])
	assert.Equal(t, "3", got.Meta["b"])
}

func TestUpdatePostContentMissingPost(t *testing.T) {
	s := testStore(t)

	err := s.UpdatePostContent(context.Background(), 99, "x", nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestImportPostIndexesArticle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ok, err := s.IsImported(ctx, "11111")
	require.NoError(t, err)
	assert.False(t, ok)

	article := types.ImportedArticle{
		PMID:      "11111",
		Title:     "Folic Acid",
		Authors:   []string{"Yilmaz A"},
		MeSHTerms: []string{"Pregnancy"},
	}
	postID, err := s.ImportPost(ctx, Post{Title: "T", Content: "c"}, article)
	require.NoError(t, err)
	require.Positive(t, postID)

	ok, err = s.IsImported(ctx, "11111")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := s.ListImported(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, postID, list[0].PostID)
	assert.Equal(t, "Folic Acid", list[0].Title)
	assert.Equal(t, []string{"Yilmaz A"}, list[0].Authors)
	assert.Equal(t, []string{"Pregnancy"}, list[0].MeSHTerms)
	assert.False(t, list[0].ImportedAt.IsZero())
}

func TestImportPostRollsBackDuplicatePMID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	article := types.ImportedArticle{PMID: "11111", Title: "Folic Acid"}
	postID, err := s.ImportPost(ctx, Post{Title: "T", Content: "c"}, article)
	require.NoError(t, err)

	// The second import of the same PMID loses: no index row is replaced
	// and its post never lands.
	dup := article
	dup.Title = "Other title"
	_, err = s.ImportPost(ctx, Post{Title: "T2", Content: "c2"}, dup)
	assert.ErrorIs(t, err, ErrAlreadyImported)

	list, err := s.ListImported(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Folic Acid", list[0].Title)

	var posts int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&posts))
	assert.Equal(t, 1, posts)

	_, err = s.GetPost(ctx, postID)
	assert.NoError(t, err)
}

func TestScheduledSearchLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	search := types.ScheduledSearch{
		Name:        "weekly pregnancy",
		Description: "pregnancy news",
		Params: types.SearchParams{
			Query:     "pregnancy nutrition",
			Count:     5,
			DateRange: types.Range7Days,
		},
		Schedule: types.RecurWeekly,
	}
	require.NoError(t, s.SaveScheduledSearch(ctx, &search))
	require.Positive(t, search.ID)
	assert.False(t, search.CreatedAt.IsZero())

	got, err := s.GetScheduledSearch(ctx, search.ID)
	require.NoError(t, err)
	assert.Equal(t, "weekly pregnancy", got.Name)
	assert.Equal(t, types.Range7Days, got.Params.DateRange)
	assert.Equal(t, types.RecurWeekly, got.Schedule)
	assert.Nil(t, got.LastRun)

	// Update in place.
	search.Params.Count = 10
	require.NoError(t, s.SaveScheduledSearch(ctx, &search))
	got, err = s.GetScheduledSearch(ctx, search.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Params.Count)

	// Stamp a run.
	ran := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateLastRun(ctx, search.ID, ran))
	got, err = s.GetScheduledSearch(ctx, search.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastRun)
	assert.Equal(t, ran, got.LastRun.UTC())

	list, err := s.ListScheduledSearches(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteScheduledSearch(ctx, search.ID))
	_, err = s.GetScheduledSearch(ctx, search.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteMissingScheduledSearch(t *testing.T) {
	s := testStore(t)

	err := s.DeleteScheduledSearch(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveScheduledSearchUpdateMissing(t *testing.T) {
	s := testStore(t)

	search := types.ScheduledSearch{ID: 42, Name: "ghost", Schedule: types.RecurDaily}
	err := s.SaveScheduledSearch(context.Background(), &search)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.ImportPost(ctx, Post{Title: "T", Content: "c"},
		types.ImportedArticle{PMID: "11111", Title: "Folic Acid"})
	require.NoError(t, err)
	search := types.ScheduledSearch{
		Name:     "daily",
		Params:   types.SearchParams{Query: "anemia", Count: 3},
		Schedule: types.RecurDaily,
	}
	require.NoError(t, s.SaveScheduledSearch(ctx, &search))

	var buf strings.Builder
	require.NoError(t, s.ExportYAML(ctx, &buf))

	out := buf.String()
	assert.Contains(t, out, "pmid: \"11111\"")
	assert.Contains(t, out, "query: anemia")
	assert.Contains(t, out, "schedule: daily")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, "publish", StatusFor(true))
	assert.Equal(t, "draft", StatusFor(false))
}
