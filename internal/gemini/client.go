// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gemini enriches post content through the generative language API:
// a full rewrite pass plus FAQ, featured-snippet and schema generation, and
// standalone translation. Model output is untrusted and sanitized before use.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// apiBase is the generative language endpoint root. Declared as a var so
// tests can substitute an httptest server.
var apiBase = "https://generativelanguage.googleapis.com/v1beta/models"

// Client calls the generative language API with fixed, conservative
// sampling settings.
type Client struct {
	cfg    types.GeminiConfig
	client *http.Client
}

// NewClient builds a client from cfg, defaulting the model and timeout.
func NewClient(cfg types.GeminiConfig) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-pro"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enhance rewrites the post body and regenerates its FAQ, snippet and schema
// blocks. The rewrite is required; the other passes degrade to empty values
// on failure so a partial enhancement still lands.
func (c *Client) Enhance(ctx context.Context, content, title string) (types.EnhancedContent, error) {
	if c.cfg.APIKey == "" {
		return types.EnhancedContent{}, fmt.Errorf("%w: gemini_api_key is not set", types.ErrMissingCredential)
	}

	plain := stripTags(content)

	enhanced, err := c.enhanceBody(ctx, plain, title)
	if err != nil {
		return types.EnhancedContent{}, err
	}

	out := types.EnhancedContent{Content: enhanced}
	if faq, err := c.generateFAQ(ctx, plain, title); err == nil {
		out.FAQ = faq
	}
	if fs, err := c.generateSnippet(ctx, plain, title); err == nil {
		out.FeaturedSnippet = fs
	}
	if markup, err := c.generateSchema(ctx, enhanced, title, out.FAQ); err == nil {
		out.SchemaMarkup = markup
	}
	return out, nil
}

// Translate renders content from sourceLang into targetLang.
func (c *Client) Translate(ctx context.Context, content, sourceLang, targetLang string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: gemini_api_key is not set", types.ErrMissingCredential)
	}

	prompt := fmt.Sprintf("Aşağıdaki metni %s dilinden %s diline çevir. "+
		"Çevirinin doğal ve akıcı olmasına dikkat et. Tıbbi terimleri doğru çevirdiğinden emin ol. "+
		"Sadece çeviriyi döndür, başka bir şey ekleme.\n\n%s",
		sourceLang, targetLang, content)
	return c.generate(ctx, prompt)
}

func (c *Client) enhanceBody(ctx context.Context, plain, title string) (string, error) {
	prompt := "Aşağıdaki tıbbi makaleyi, kadın ve bebek sağlığı konusunda bilgi arayan okuyucular için " +
		"daha kapsamlı ve SEO dostu bir içeriğe dönüştür. İçeriği HTML formatında oluştur, başlıklar için " +
		"h2 ve h3 etiketlerini kullan. İçeriği bölümlere ayır, her bölüm için açıklayıcı başlıklar kullan. " +
		"Önemli bilgileri vurgula, listeler ve tablolar ekle. İçeriği en az 1500 kelime olacak şekilde genişlet. " +
		"Google'da featured snippet (sıfır snippet) elde etmek için optimize et. " +
		"Sadece içeriği döndür, başka bir şey ekleme.\n\nBaşlık: " + title + "\n\nİçerik: " + plain

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return CleanHTML(response), nil
}

func (c *Client) generateFAQ(ctx context.Context, plain, title string) ([]types.FAQEntry, error) {
	prompt := "Aşağıdaki tıbbi makale için 10 adet sık sorulan soru ve cevap oluştur. " +
		"Sorular, Google'da featured snippet (sıfır snippet) elde etmek için optimize edilmiş olmalı. " +
		"Her soru 1-2 cümle, her cevap 2-3 cümle olmalı. Cevaplar bilgilendirici ve doğru olmalı. " +
		"Yanıtı JSON formatında döndür, her soru-cevap çifti için 'question' ve 'answer' alanları içermeli. " +
		"Sadece JSON'ı döndür, başka bir şey ekleme.\n\nBaşlık: " + title + "\n\nİçerik: " + plain

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var faq []types.FAQEntry
	if err := json.Unmarshal([]byte(extractJSON(response)), &faq); err != nil {
		return nil, fmt.Errorf("%w: FAQ response: %v", types.ErrDecode, err)
	}
	return faq, nil
}

func (c *Client) generateSnippet(ctx context.Context, plain, title string) (types.FeaturedSnippet, error) {
	prompt := "Aşağıdaki tıbbi makale için Google'da featured snippet (sıfır snippet) elde etmek üzere " +
		"optimize edilmiş içerik oluştur. Üç farklı snippet türü için içerik oluştur: " +
		"1) Tanım snippet'i (50-60 kelimelik özet), 2) Liste snippet'i (5-7 maddelik liste), " +
		"3) Tablo snippet'i (3-4 satırlık tablo). Yanıtı JSON formatında döndür, " +
		"her snippet türü için ayrı bir alan içermeli. " +
		"Sadece JSON'ı döndür, başka bir şey ekleme.\n\nBaşlık: " + title + "\n\nİçerik: " + plain

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return types.FeaturedSnippet{}, err
	}

	var fs types.FeaturedSnippet
	if err := json.Unmarshal([]byte(extractJSON(response)), &fs); err != nil {
		return types.FeaturedSnippet{}, fmt.Errorf("%w: snippet response: %v", types.ErrDecode, err)
	}
	return fs, nil
}

func (c *Client) generateSchema(ctx context.Context, enhanced, title string, faq []types.FAQEntry) (string, error) {
	prompt := "Aşağıdaki tıbbi makale için schema.org şema markup'ı oluştur. " +
		"MedicalWebPage, Article ve FAQPage şemalarını içermeli. Yanıtı JSON-LD formatında döndür. " +
		"Sadece JSON-LD'yi döndür, başka bir şey ekleme.\n\nBaşlık: " + title + "\n\nİçerik: " + enhanced

	if len(faq) > 0 {
		encoded, err := json.Marshal(faq)
		if err == nil {
			prompt += "\n\nFAQ: " + string(encoded)
		}
	}

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return extractJSONLD(response), nil
}

// generate performs one completion request and returns the first candidate's
// text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.4,
			TopK:            32,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", apiBase, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: generateContent: %v", types.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: generateContent returned HTTP %d", types.ErrRemote, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", types.ErrRemote, err)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: generateContent response: %v", types.ErrDecode, err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response has no candidates", types.ErrDecode)
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// Generative language API request/response structures.
type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// stripTags flattens HTML to plain text for prompt bodies.
func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
