package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-importer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// PubMedConfig holds settings for the PubMed E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is the optional NCBI API key; it raises the rate limit.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Tool identifies this client to the E-utilities service, as NCBI
	// etiquette requires (default "pubmed_health_importer").
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`

	// Email is the contact address sent alongside Tool.
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// CacheDuration is the response cache TTL in seconds (default 86400).
	CacheDuration int `json:"cache_duration" yaml:"cache_duration" mapstructure:"cache_duration"`

	// MeSHTerms is the ordered allow-list of subject terms OR-combined into
	// every search query.
	MeSHTerms []string `json:"mesh_terms" yaml:"mesh_terms" mapstructure:"mesh_terms"`
}

// CacheTTL returns the cache duration, applying the 24 h default.
func (c PubMedConfig) CacheTTL() time.Duration {
	if c.CacheDuration <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.CacheDuration) * time.Second
}

// GeminiConfig holds settings for the generative AI enrichment client.
type GeminiConfig struct {
	// APIKey authenticates against the generative language API. Enrichment
	// fails fast when empty.
	APIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty" mapstructure:"gemini_api_key"`

	// Model is the model identifier (default "gemini-pro").
	Model string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`

	// Timeout is the per-request timeout (default 60s).
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// SEOConfig gates the optimizer's sub-features independently.
type SEOConfig struct {
	// SEOOptimization enables the SEO title/description and structural pass.
	SEOOptimization bool `json:"seo_optimization" yaml:"seo_optimization" mapstructure:"seo_optimization"`

	// FeaturedSnippetOptimization enables snippet-candidate generation.
	FeaturedSnippetOptimization bool `json:"featured_snippet_optimization" yaml:"featured_snippet_optimization" mapstructure:"featured_snippet_optimization"`

	// FAQGeneration enables FAQ derivation.
	FAQGeneration bool `json:"faq_generation" yaml:"faq_generation" mapstructure:"faq_generation"`
}

// ImportConfig holds settings for the scheduled-search orchestrator.
type ImportConfig struct {
	// AutoImport controls whether scheduled runs import their results.
	AutoImport bool `json:"auto_import" yaml:"auto_import" mapstructure:"auto_import"`

	// AutoPublish publishes imported posts immediately instead of leaving
	// them as drafts.
	AutoPublish bool `json:"auto_publish" yaml:"auto_publish" mapstructure:"auto_publish"`

	// ContentEnhancement runs the AI enrichment pass on imported articles.
	ContentEnhancement bool `json:"content_enhancement" yaml:"content_enhancement" mapstructure:"content_enhancement"`

	// DefaultAuthor is the content-store author assigned to imported posts.
	DefaultAuthor int64 `json:"default_author" yaml:"default_author" mapstructure:"default_author"`

	// DefaultCategory, when set, is assigned in addition to derived categories.
	DefaultCategory string `json:"default_category,omitempty" yaml:"default_category,omitempty" mapstructure:"default_category"`
}

// Config groups all stage configurations. It is constructed once at startup
// and passed into component constructors; no component reads settings from
// process-wide state.
type Config struct {
	// Database is the path to the importer's SQLite database.
	Database string `json:"database" yaml:"database" mapstructure:"database"`

	PubMed PubMedConfig `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Gemini GeminiConfig `json:"gemini" yaml:"gemini" mapstructure:"gemini"`
	SEO    SEOConfig    `json:"seo" yaml:"seo" mapstructure:"seo"`
	Import ImportConfig `json:"import" yaml:"import" mapstructure:"import"`
}

// DefaultMeSHTerms is the stock subject-term allow-list: the women's and
// infant-health vocabulary the importer targets out of the box.
func DefaultMeSHTerms() []string {
	return []string{
		"Women's Health",
		"Pregnancy",
		"Pregnancy Complications",
		"Reproductive Health",
		"Maternal Health",
		"Female Genital Diseases",
		"Menstruation",
		"Menopause",
		"Infant Health",
		"Child Health",
		"Pediatrics",
		"Infant Care",
		"Child Development",
		"Infant Nutrition",
		"Infant, Newborn, Diseases",
	}
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Database: "pubmed-importer.db",
		PubMed: PubMedConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "pubmed-importer/0.1",
			},
			Tool:          "pubmed_health_importer",
			CacheDuration: 86400,
			MeSHTerms:     DefaultMeSHTerms(),
		},
		Gemini: GeminiConfig{
			Model:   "gemini-pro",
			Timeout: 60 * time.Second,
		},
		SEO: SEOConfig{
			SEOOptimization:             true,
			FeaturedSnippetOptimization: true,
			FAQGeneration:               true,
		},
		Import: ImportConfig{
			ContentEnhancement: true,
			DefaultAuthor:      1,
		},
	}
}
