// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is the NCBI E-utilities client. It searches PubMed, fetches
// article summaries and full records, and caches responses so repeated runs
// stay within NCBI's rate etiquette.
package pubmed

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// apiBase is the E-utilities endpoint root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Cache stores decoded API results between runs. Implementations must treat
// Get misses and expired entries identically.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// Client talks to the PubMed E-utilities. A nil cache disables caching.
type Client struct {
	cfg    types.PubMedConfig
	client *http.Client
	cache  Cache
}

// NewClient builds a client from cfg. The HTTP timeout comes from cfg;
// cache may be nil.
func NewClient(cfg types.PubMedConfig, cache Cache) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
	}
}

// Search expands the query against the subject-term allow-list, then runs
// esearch + esummary and returns one page of summaries. count and start
// page through results; start is a zero-based offset.
func (c *Client) Search(ctx context.Context, query string, count, start int) (types.SearchResultPage, error) {
	expanded := ExpandQuery(query, c.cfg.MeSHTerms)

	cacheKey := fmt.Sprintf("pubmed_search_%x", md5.Sum([]byte(fmt.Sprintf("%s|%d|%d", expanded, count, start))))
	var page types.SearchResultPage
	if c.cacheGet(cacheKey, &page) {
		return page, nil
	}

	ids, total, err := c.esearch(ctx, expanded, count, start)
	if err != nil {
		return types.SearchResultPage{}, err
	}

	page = types.SearchResultPage{Total: total}
	if len(ids) > 0 {
		page.Articles, err = c.esummary(ctx, ids)
		if err != nil {
			return types.SearchResultPage{}, err
		}
	}

	c.cacheSet(cacheKey, page)
	return page, nil
}

// ScheduledSearch runs a saved search: the stored query with its date-range
// filter applied, paged from the start. Searches saved without a date range
// default to the last 30 days so recurring runs stay recent.
func (c *Client) ScheduledSearch(ctx context.Context, params types.SearchParams) (types.SearchResultPage, error) {
	dateRange := params.DateRange
	if dateRange == types.RangeNone {
		dateRange = types.Range30Days
	}
	query := AddDateRange(params.Query, dateRange)
	count := params.Count
	if count <= 0 {
		count = 10
	}
	return c.Search(ctx, query, count, 0)
}

// GetArticle fetches the full record for one PMID via efetch.
func (c *Client) GetArticle(ctx context.Context, pmid string) (types.ArticleRecord, error) {
	if pmid == "" {
		return types.ArticleRecord{}, fmt.Errorf("%w: empty PMID", types.ErrInvalidRecord)
	}

	cacheKey := "pubmed_article_" + pmid
	var rec types.ArticleRecord
	if c.cacheGet(cacheKey, &rec) {
		return rec, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
		"rettype": {"abstract"},
	}
	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return types.ArticleRecord{}, err
	}

	records, err := parseEfetch(body)
	if err != nil {
		return types.ArticleRecord{}, err
	}
	if len(records) == 0 {
		return types.ArticleRecord{}, fmt.Errorf("%w: no article for PMID %s", types.ErrDecode, pmid)
	}

	rec = records[0]
	c.cacheSet(cacheKey, rec)
	return rec, nil
}

// GetRelated returns summaries of articles related to pmid, ranked by
// neighbor score, up to limit entries.
func (c *Client) GetRelated(ctx context.Context, pmid string, limit int) ([]types.ArticleSummary, error) {
	if limit <= 0 {
		limit = 5
	}

	cacheKey := fmt.Sprintf("pubmed_related_%s_%d", pmid, limit)
	var cached []types.ArticleSummary
	if c.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{
		"dbfrom":  {"pubmed"},
		"db":      {"pubmed"},
		"id":      {pmid},
		"cmd":     {"neighbor_score"},
		"retmode": {"json"},
	}
	body, err := c.get(ctx, "elink.fcgi", params)
	if err != nil {
		return nil, err
	}

	var result elinkResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: elink response: %v", types.ErrDecode, err)
	}

	var ids []string
	for _, set := range result.LinkSets {
		for _, db := range set.LinkSetDBs {
			for _, link := range db.Links {
				id := link.ID.String()
				if id == "" || id == pmid {
					continue
				}
				ids = append(ids, id)
				if len(ids) >= limit {
					break
				}
			}
			if len(ids) >= limit {
				break
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	related, err := c.esummary(ctx, ids)
	if err != nil {
		return nil, err
	}
	c.cacheSet(cacheKey, related)
	return related, nil
}

// esearch returns the matching PMIDs for one result page plus the total
// match count.
func (c *Client) esearch(ctx context.Context, query string, count, start int) ([]string, int, error) {
	params := url.Values{
		"db":         {"pubmed"},
		"term":       {query},
		"retmax":     {strconv.Itoa(count)},
		"retstart":   {strconv.Itoa(start)},
		"usehistory": {"y"},
		"retmode":    {"json"},
		"sort":       {"relevance"},
	}
	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, 0, err
	}

	var result esearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, 0, fmt.Errorf("%w: esearch response: %v", types.ErrDecode, err)
	}

	total, _ := strconv.Atoi(result.ESearchResult.Count)
	return result.ESearchResult.IDList, total, nil
}

// esummary fetches summaries for a batch of PMIDs, returned in idlist order.
func (c *Client) esummary(ctx context.Context, ids []string) ([]types.ArticleSummary, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"json"},
	}
	body, err := c.get(ctx, "esummary.fcgi", params)
	if err != nil {
		return nil, err
	}

	var result esummaryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: esummary response: %v", types.ErrDecode, err)
	}

	summaries := make([]types.ArticleSummary, 0, len(ids))
	for _, id := range ids {
		raw, ok := result.Result[id]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}

		s := types.ArticleSummary{
			PMID:            id,
			Title:           strings.TrimSpace(doc.Title),
			Journal:         strings.TrimSpace(doc.FullJournalName),
			PublicationDate: strings.TrimSpace(doc.PubDate),
		}
		for _, a := range doc.Authors {
			if a.Name != "" {
				s.Authors = append(s.Authors, a.Name)
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// get performs one E-utilities request, attaching the tool/email identity
// and the optional API key.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	reqURL := apiBase + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrRemote, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", types.ErrRemote, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", types.ErrRemote, endpoint, err)
	}
	return body, nil
}

// cacheGet decodes a cached JSON entry into v.
func (c *Client) cacheGet(key string, v any) bool {
	if c.cache == nil {
		return false
	}
	data, ok := c.cache.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// cacheSet stores v as JSON under key with the configured TTL. Cache write
// failures are ignored; the result is already in hand.
func (c *Client) cacheSet(key string, v any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.cache.Set(key, data, c.cfg.CacheTTL())
}

// E-utilities JSON response structures.
type esearchResult struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResult struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryDoc struct {
	Title           string `json:"title"`
	FullJournalName string `json:"fulljournalname"`
	PubDate         string `json:"pubdate"`
	Authors         []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

type elinkResult struct {
	LinkSets []struct {
		LinkSetDBs []struct {
			Links []struct {
				ID json.Number `json:"id"`
			} `json:"links"`
		} `json:"linksetdbs"`
	} `json:"linksets"`
}
