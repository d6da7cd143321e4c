// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/compose"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/seo"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/store"
	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// fakeSearch serves canned pages and records, and can block runs to test
// the concurrency guards.
type fakeSearch struct {
	page    types.SearchResultPage
	records map[string]types.ArticleRecord
	failIDs map[string]bool
	block   chan struct{} // when set, ScheduledSearch waits on it

	// fetchBarrier, when set, holds every GetArticle call until all expected
	// callers have arrived, forcing fetches to race.
	fetchBarrier *sync.WaitGroup
}

func (f *fakeSearch) ScheduledSearch(ctx context.Context, _ types.SearchParams) (types.SearchResultPage, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return types.SearchResultPage{}, ctx.Err()
		}
	}
	return f.page, nil
}

func (f *fakeSearch) GetArticle(_ context.Context, pmid string) (types.ArticleRecord, error) {
	if f.fetchBarrier != nil {
		f.fetchBarrier.Done()
		f.fetchBarrier.Wait()
	}
	if f.failIDs[pmid] {
		return types.ArticleRecord{}, types.ErrRemote
	}
	rec, ok := f.records[pmid]
	if !ok {
		return types.ArticleRecord{}, types.ErrDecode
	}
	return rec, nil
}

type fakeEnhancer struct {
	err   error
	calls int
}

func (f *fakeEnhancer) Enhance(_ context.Context, _, _ string) (types.EnhancedContent, error) {
	f.calls++
	if f.err != nil {
		return types.EnhancedContent{}, f.err
	}
	return types.EnhancedContent{
		Content:      "<h2>Enhanced</h2><p>Rewritten.</p>",
		SchemaMarkup: `{"@type":"MedicalWebPage"}`,
	}, nil
}

func record(pmid, title string) types.ArticleRecord {
	return types.ArticleRecord{
		PMID:            pmid,
		Title:           title,
		Authors:         []string{"Yilmaz A"},
		Abstract:        "Folate needs rise during gestation.",
		Journal:         "Journal of Maternal Health",
		PublicationDate: "2024-03",
		MeSHTerms:       []string{"Pregnancy"},
	}
}

func testOrchestrator(t *testing.T, search SearchClient, enhancer Enhancer, cfg types.ImportConfig) (*Orchestrator, *store.Store) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "importer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	seoCfg := types.SEOConfig{
		SEOOptimization:             true,
		FeaturedSnippetOptimization: true,
		FAQGeneration:               true,
	}
	o := New(st, search, enhancer, compose.New(nil), seo.New(seoCfg), nil, cfg)
	return o, st
}

func savedSearch(t *testing.T, o *Orchestrator) int64 {
	t.Helper()
	s := types.ScheduledSearch{
		Name:     "pregnancy weekly",
		Params:   types.SearchParams{Query: "pregnancy", Count: 10},
		Schedule: types.RecurWeekly,
	}
	require.NoError(t, o.SaveScheduledSearch(context.Background(), &s))
	return s.ID
}

func TestRunImportsNewArticles(t *testing.T) {
	search := &fakeSearch{
		page: types.SearchResultPage{Total: 2, Articles: []types.ArticleSummary{
			{PMID: "11111", Title: "Folic acid"},
			{PMID: "22222", Title: "Iron"},
		}},
		records: map[string]types.ArticleRecord{
			"11111": record("11111", "Folic acid in pregnancy"),
			"22222": record("22222", "Iron supplementation"),
		},
	}
	o, st := testOrchestrator(t, search, nil, types.ImportConfig{AutoImport: true, DefaultAuthor: 1})
	id := savedSearch(t, o)

	var buf strings.Builder
	summary, err := o.RunScheduledSearch(context.Background(), id, &buf)
	require.NoError(t, err)

	assert.Equal(t, RunSummary{Found: 2, Imported: 2}, summary)

	imported, err := st.ListImported(context.Background())
	require.NoError(t, err)
	require.Len(t, imported, 2)

	post, err := st.GetPost(context.Background(), imported[0].PostID)
	require.NoError(t, err)
	assert.Equal(t, "draft", post.Status)
	assert.Contains(t, post.Meta, "seo_title")
	assert.Contains(t, post.Meta, "schema_markup")
	assert.Equal(t, []string{"Hamilelik"}, post.Categories)

	// The run was stamped.
	got, err := st.GetScheduledSearch(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, got.LastRun)
}

func TestRunSkipsImportedArticles(t *testing.T) {
	search := &fakeSearch{
		page: types.SearchResultPage{Total: 1, Articles: []types.ArticleSummary{
			{PMID: "11111", Title: "Folic acid"},
		}},
		records: map[string]types.ArticleRecord{
			"11111": record("11111", "Folic acid in pregnancy"),
		},
	}
	o, _ := testOrchestrator(t, search, nil, types.ImportConfig{AutoImport: true})
	id := savedSearch(t, o)

	first, err := o.RunScheduledSearch(context.Background(), id, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	// Running again finds the same article and skips it.
	second, err := o.RunScheduledSearch(context.Background(), id, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, RunSummary{Found: 1, Skipped: 1}, second)
}

func TestRunContinuesAfterFailures(t *testing.T) {
	search := &fakeSearch{
		page: types.SearchResultPage{Total: 2, Articles: []types.ArticleSummary{
			{PMID: "bad-1", Title: "broken"},
			{PMID: "22222", Title: "Iron"},
		}},
		records: map[string]types.ArticleRecord{
			"22222": record("22222", "Iron supplementation"),
		},
		failIDs: map[string]bool{"bad-1": true},
	}
	o, _ := testOrchestrator(t, search, nil, types.ImportConfig{AutoImport: true})
	id := savedSearch(t, o)

	var buf strings.Builder
	summary, err := o.RunScheduledSearch(context.Background(), id, &buf)
	require.NoError(t, err)

	assert.Equal(t, RunSummary{Found: 2, Imported: 1, Failed: 1}, summary)
	assert.Contains(t, buf.String(), "failed   bad-1")
}

func TestRunWithoutAutoImportOnlyReports(t *testing.T) {
	search := &fakeSearch{
		page: types.SearchResultPage{Total: 1, Articles: []types.ArticleSummary{
			{PMID: "11111", Title: "Folic acid"},
		}},
	}
	o, st := testOrchestrator(t, search, nil, types.ImportConfig{AutoImport: false})
	id := savedSearch(t, o)

	summary, err := o.RunScheduledSearch(context.Background(), id, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, RunSummary{Found: 1}, summary)

	imported, err := st.ListImported(context.Background())
	require.NoError(t, err)
	assert.Empty(t, imported)
}

func TestConcurrentRunsOfSameSearchRejected(t *testing.T) {
	search := &fakeSearch{block: make(chan struct{})}
	o, _ := testOrchestrator(t, search, nil, types.ImportConfig{})
	id := savedSearch(t, o)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.RunScheduledSearch(context.Background(), id, io.Discard)
	}()

	// Wait until the first run holds the guard.
	require.Eventually(t, func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		return o.running[id]
	}, 2*time.Second, time.Millisecond)

	_, err := o.RunScheduledSearch(context.Background(), id, io.Discard)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(search.block)
	wg.Wait()

	// The guard is released after the run.
	_, err = o.RunScheduledSearch(context.Background(), id, io.Discard)
	require.NoError(t, err)
}

func TestConcurrentSearchesImportSamePMIDOnce(t *testing.T) {
	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	search := &fakeSearch{
		page: types.SearchResultPage{Total: 1, Articles: []types.ArticleSummary{
			{PMID: "33333", Title: "Folic acid"},
		}},
		records: map[string]types.ArticleRecord{
			"33333": record("33333", "Folic acid in pregnancy"),
		},
		fetchBarrier: barrier,
	}
	o, st := testOrchestrator(t, search, nil, types.ImportConfig{AutoImport: true})

	// Two different saved searches surface the same article. The barrier
	// ensures both pass the index pre-check before either import commits.
	first := savedSearch(t, o)
	second := savedSearch(t, o)

	var wg sync.WaitGroup
	summaries := make([]RunSummary, 2)
	for i, id := range []int64{first, second} {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			var err error
			summaries[i], err = o.RunScheduledSearch(context.Background(), id, io.Discard)
			assert.NoError(t, err)
		}(i, id)
	}
	wg.Wait()

	// Exactly one run imported the article; the loser skipped it.
	assert.Equal(t, 1, summaries[0].Imported+summaries[1].Imported)
	assert.Equal(t, 1, summaries[0].Skipped+summaries[1].Skipped)
	assert.Zero(t, summaries[0].Failed+summaries[1].Failed)

	imported, err := st.ListImported(context.Background())
	require.NoError(t, err)
	require.Len(t, imported, 1)

	var posts int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&posts))
	assert.Equal(t, 1, posts)
}

func TestEnhancementUpdatesPost(t *testing.T) {
	search := &fakeSearch{
		records: map[string]types.ArticleRecord{
			"11111": record("11111", "Folic acid in pregnancy"),
		},
	}
	enhancer := &fakeEnhancer{}
	o, st := testOrchestrator(t, search, enhancer,
		types.ImportConfig{ContentEnhancement: true})

	postID, err := o.ImportArticle(context.Background(), "11111", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, enhancer.calls)

	post, err := st.GetPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, "<h2>Enhanced</h2><p>Rewritten.</p>", post.Content)
	assert.Equal(t, "1", post.Meta["content_enhanced"])
	assert.Equal(t, `{"@type":"MedicalWebPage"}`, post.Meta["schema_markup"])
}

func TestEnhancementFailureKeepsPost(t *testing.T) {
	search := &fakeSearch{
		records: map[string]types.ArticleRecord{
			"11111": record("11111", "Folic acid in pregnancy"),
		},
	}
	enhancer := &fakeEnhancer{err: types.ErrRemote}
	o, st := testOrchestrator(t, search, enhancer,
		types.ImportConfig{ContentEnhancement: true})

	var buf strings.Builder
	postID, err := o.ImportArticle(context.Background(), "11111", &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "enhancement of 11111 failed")

	post, err := st.GetPost(context.Background(), postID)
	require.NoError(t, err)
	assert.NotContains(t, post.Meta, "content_enhanced")
	assert.Contains(t, post.Content, "pubmed-article-source-info")
}

func TestDefaultCategoryAppended(t *testing.T) {
	search := &fakeSearch{
		records: map[string]types.ArticleRecord{
			"11111": record("11111", "Folic acid in pregnancy"),
		},
	}
	o, st := testOrchestrator(t, search, nil,
		types.ImportConfig{DefaultCategory: "Sağlık Haberleri"})

	postID, err := o.ImportArticle(context.Background(), "11111", io.Discard)
	require.NoError(t, err)

	post, err := st.GetPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hamilelik", "Sağlık Haberleri"}, post.Categories)
}

func TestDeleteScheduledSearch(t *testing.T) {
	o, st := testOrchestrator(t, &fakeSearch{}, nil, types.ImportConfig{})
	id := savedSearch(t, o)

	require.NoError(t, o.DeleteScheduledSearch(context.Background(), id))
	_, err := st.GetScheduledSearch(context.Background(), id)
	require.Error(t, err)

	// Deleting again surfaces the missing row.
	err = o.DeleteScheduledSearch(context.Background(), id)
	assert.Error(t, err)
}

func TestAutoPublishStatus(t *testing.T) {
	search := &fakeSearch{
		records: map[string]types.ArticleRecord{
			"11111": record("11111", "Folic acid in pregnancy"),
		},
	}
	o, st := testOrchestrator(t, search, nil, types.ImportConfig{AutoPublish: true})

	postID, err := o.ImportArticle(context.Background(), "11111", io.Discard)
	require.NoError(t, err)

	post, err := st.GetPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, "publish", post.Status)
}
