package analysis

import (
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
)

type implClient struct {
	baseURL      string
	classModel   string
	topicsMode   string
	language     string
	minRelevance int
	http         *http.Client
}

// New creates a Client for the service at cfg.BaseURL. A nil httpClient gets one
// with cfg.Timeout.
func New(cfg config.AnalysisConfig, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &implClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		classModel:   cfg.ClassModel,
		topicsMode:   cfg.TopicsMode,
		language:     cfg.Language,
		minRelevance: cfg.MinRelevance,
		http:         httpClient,
	}
}
