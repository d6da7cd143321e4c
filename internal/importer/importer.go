// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer orchestrates scheduled searches: it runs the saved query,
// pushes new articles through compose and SEO optimization, persists them,
// and keeps the recurring triggers in sync with the saved definitions.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/kreatifsayfa/pubmed-health-importer/internal/compose"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/scheduler"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/seo"
	"github.com/kreatifsayfa/pubmed-health-importer/internal/store"
	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// ErrAlreadyRunning is returned when a run is requested for a search whose
// previous run has not finished.
var ErrAlreadyRunning = errors.New("scheduled search is already running")

// SearchClient is the PubMed surface the orchestrator needs.
type SearchClient interface {
	ScheduledSearch(ctx context.Context, params types.SearchParams) (types.SearchResultPage, error)
	GetArticle(ctx context.Context, pmid string) (types.ArticleRecord, error)
}

// Enhancer is the AI enrichment surface. A nil Enhancer disables the pass.
type Enhancer interface {
	Enhance(ctx context.Context, content, title string) (types.EnhancedContent, error)
}

// Orchestrator wires the pipeline stages behind the scheduled-search
// operations.
type Orchestrator struct {
	store     *store.Store
	search    SearchClient
	enhancer  Enhancer
	composer  *compose.Composer
	optimizer *seo.Optimizer
	triggers  *scheduler.Scheduler
	cfg       types.ImportConfig

	mu      sync.Mutex
	running map[int64]bool
}

// New builds the orchestrator. enhancer and triggers may be nil; the
// corresponding features are then skipped.
func New(st *store.Store, search SearchClient, enhancer Enhancer,
	composer *compose.Composer, optimizer *seo.Optimizer,
	triggers *scheduler.Scheduler, cfg types.ImportConfig) *Orchestrator {
	return &Orchestrator{
		store:     st,
		search:    search,
		enhancer:  enhancer,
		composer:  composer,
		optimizer: optimizer,
		triggers:  triggers,
		cfg:       cfg,
		running:   make(map[int64]bool),
	}
}

// triggerName is the registry key for a search's recurring trigger.
func triggerName(id int64) string {
	return fmt.Sprintf("scheduled_search_%d", id)
}

// SaveScheduledSearch persists the definition and (re)registers its trigger.
func (o *Orchestrator) SaveScheduledSearch(ctx context.Context, s *types.ScheduledSearch) error {
	if err := o.store.SaveScheduledSearch(ctx, s); err != nil {
		return err
	}
	o.registerTrigger(ctx, *s)
	return nil
}

// DeleteScheduledSearch removes the definition and cancels its trigger.
func (o *Orchestrator) DeleteScheduledSearch(ctx context.Context, id int64) error {
	if err := o.store.DeleteScheduledSearch(ctx, id); err != nil {
		return err
	}
	if o.triggers != nil {
		o.triggers.Cancel(triggerName(id))
	}
	return nil
}

// RestoreTriggers re-registers triggers for every saved search, used at
// daemon startup. Searches overdue since their last run fire immediately.
func (o *Orchestrator) RestoreTriggers(ctx context.Context) error {
	searches, err := o.store.ListScheduledSearches(ctx)
	if err != nil {
		return err
	}
	for _, s := range searches {
		o.registerTrigger(ctx, s)
	}
	return nil
}

func (o *Orchestrator) registerTrigger(ctx context.Context, s types.ScheduledSearch) {
	if o.triggers == nil {
		return
	}
	interval := s.Schedule.Interval()
	delay := interval
	if s.LastRun != nil {
		delay = interval - time.Since(*s.LastRun)
	}
	o.triggers.Register(ctx, triggerName(s.ID), s.ID, delay, interval)
}

// RunSummary holds counts from one scheduled-search run.
type RunSummary struct {
	Found    int
	Imported int
	Skipped  int
	Failed   int
}

// RunScheduledSearch executes one saved search now. Concurrent runs of the
// same search are rejected with ErrAlreadyRunning; per-article failures are
// reported on w and counted, never aborting the run.
func (o *Orchestrator) RunScheduledSearch(ctx context.Context, id int64, w io.Writer) (RunSummary, error) {
	o.mu.Lock()
	if o.running[id] {
		o.mu.Unlock()
		return RunSummary{}, fmt.Errorf("scheduled search %d: %w", id, ErrAlreadyRunning)
	}
	o.running[id] = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.running, id)
		o.mu.Unlock()
	}()

	search, err := o.store.GetScheduledSearch(ctx, id)
	if err != nil {
		return RunSummary{}, err
	}

	page, err := o.search.ScheduledSearch(ctx, search.Params)
	if err != nil {
		return RunSummary{}, err
	}

	if err := o.store.UpdateLastRun(ctx, id, time.Now()); err != nil {
		fmt.Fprintf(w, "warning: recording last run failed: %v\n", err)
	}

	summary := RunSummary{Found: len(page.Articles)}
	fmt.Fprintf(w, "search %q found %d articles (%d total matches)\n",
		search.Name, len(page.Articles), page.Total)

	if !o.cfg.AutoImport {
		return summary, nil
	}

	for _, article := range page.Articles {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		imported, err := o.store.IsImported(ctx, article.PMID)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", article.PMID, err)
			summary.Failed++
			continue
		}
		if imported {
			fmt.Fprintf(w, "skipped  %s (already imported)\n", article.PMID)
			summary.Skipped++
			continue
		}

		postID, err := o.ImportArticle(ctx, article.PMID, w)
		if errors.Is(err, store.ErrAlreadyImported) {
			// A concurrent run got there first.
			fmt.Fprintf(w, "skipped  %s (already imported)\n", article.PMID)
			summary.Skipped++
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", article.PMID, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "imported %s as post %d\n", article.PMID, postID)
		summary.Imported++
	}

	fmt.Fprintf(w, "\nfound: %d, imported: %d, skipped: %d, failed: %d\n",
		summary.Found, summary.Imported, summary.Skipped, summary.Failed)
	return summary, nil
}

// ImportArticle runs the full pipeline for one PMID: fetch, compose,
// optimize, persist post and index row together, and optionally enhance.
// It returns the post ID. Post and index are written in one transaction so
// a concurrent import of the same PMID leaves exactly one post; the loser
// gets store.ErrAlreadyImported.
func (o *Orchestrator) ImportArticle(ctx context.Context, pmid string, w io.Writer) (int64, error) {
	rec, err := o.search.GetArticle(ctx, pmid)
	if err != nil {
		return 0, err
	}

	composed, err := o.composer.Compose(rec)
	if err != nil {
		return 0, err
	}

	optimized, err := o.optimizer.Optimize(composed)
	if err != nil {
		return 0, err
	}

	postID, err := o.store.ImportPost(ctx, postFrom(pmid, optimized, o.cfg), types.ImportedArticle{
		PMID:            pmid,
		Title:           optimized.Title,
		Authors:         optimized.Authors,
		Abstract:        rec.Abstract,
		PublicationDate: optimized.PublicationDate,
		Journal:         optimized.Journal,
		MeSHTerms:       optimized.MeSHTerms,
	})
	if err != nil {
		return 0, err
	}

	if o.cfg.ContentEnhancement && o.enhancer != nil {
		if err := o.enhancePost(ctx, postID, optimized); err != nil {
			// The unenhanced post already landed; the run goes on.
			fmt.Fprintf(w, "warning: enhancement of %s failed: %v\n", pmid, err)
		}
	}
	return postID, nil
}

// enhancePost runs the AI pass over a stored post and writes back the
// rewritten body plus any regenerated auxiliary blocks.
func (o *Orchestrator) enhancePost(ctx context.Context, postID int64, oc types.OptimizedContent) error {
	enhanced, err := o.enhancer.Enhance(ctx, oc.Content, oc.Title)
	if err != nil {
		return err
	}

	meta := map[string]string{"content_enhanced": "1"}
	if len(enhanced.FAQ) > 0 {
		if data, err := json.Marshal(enhanced.FAQ); err == nil {
			meta["faq"] = string(data)
		}
	}
	if !enhanced.FeaturedSnippet.IsEmpty() {
		if data, err := json.Marshal(enhanced.FeaturedSnippet); err == nil {
			meta["featured_snippet"] = string(data)
		}
	}
	if enhanced.SchemaMarkup != "" {
		meta["schema_markup"] = enhanced.SchemaMarkup
	}
	return o.store.UpdatePostContent(ctx, postID, enhanced.Content, meta)
}

// postFrom maps optimized content onto a store post with its SEO metadata.
func postFrom(pmid string, oc types.OptimizedContent, cfg types.ImportConfig) store.Post {
	meta := map[string]string{
		"pubmed_pmid":             pmid,
		"seo_title":               oc.SEOTitle,
		"seo_description":         oc.SEODescription,
		"pubmed_journal":          oc.Journal,
		"pubmed_publication_date": oc.PublicationDate,
	}
	if data, err := json.Marshal(oc.Authors); err == nil {
		meta["pubmed_authors"] = string(data)
	}
	if len(oc.FAQ) > 0 {
		if data, err := json.Marshal(oc.FAQ); err == nil {
			meta["faq"] = string(data)
		}
	}
	if !oc.FeaturedSnippet.IsEmpty() {
		if data, err := json.Marshal(oc.FeaturedSnippet); err == nil {
			meta["featured_snippet"] = string(data)
		}
	}
	if oc.SchemaMarkup != "" {
		meta["schema_markup"] = oc.SchemaMarkup
	}

	categories := oc.Categories
	if cfg.DefaultCategory != "" {
		categories = appendUnique(categories, cfg.DefaultCategory)
	}

	return store.Post{
		Title:      oc.Title,
		Content:    oc.Content,
		Excerpt:    oc.Excerpt,
		Status:     store.StatusFor(cfg.AutoPublish),
		AuthorID:   cfg.DefaultAuthor,
		Meta:       meta,
		Categories: categories,
		Tags:       oc.Tags,
	}
}

func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}
