package search

import (
	"context"
	"database/sql/driver"
	"errors"
	"log"
	"net"
	"sort"
	"strings"

	"ai-filesearch-be/internal/repository/contract"
	"ai-filesearch-be/pkg/embedding"
)

// AdapterConfig encapsulates index adapter tunables.
type AdapterConfig struct {
	// Threshold is the minimum cosine similarity kept by the index query.
	Threshold float64

	// Overfetch multiplies topK for the index query so the filename-boost
	// re-rank has slack to promote hits from below the cut.
	Overfetch int
}

// DefaultAdapterConfig returns default adapter configuration.
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Threshold: 0.0,
		Overfetch: 3,
	}
}

// PgVectorSearcher runs query phrasings against the pgvector-backed
// file_documents index: embed the phrasing, cosine-match it, then apply a
// filename boost so exact name hits outrank purely semantic ones.
type PgVectorSearcher struct {
	repo     contract.FileDocumentRepository
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
	config   AdapterConfig
}

// NewPgVectorSearcher creates a Searcher over the file document index.
func NewPgVectorSearcher(
	repo contract.FileDocumentRepository,
	embedder embedding.EmbeddingProvider,
	logger *log.Logger,
	config AdapterConfig,
) *PgVectorSearcher {
	return &PgVectorSearcher{
		repo:     repo,
		embedder: embedder,
		logger:   logger,
		config:   config,
	}
}

// Search implements Searcher.
func (s *PgVectorSearcher) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 10
	}

	vector, err := s.embedder.Generate(ctx, query, embedding.TaskSearchQuery)
	if err != nil {
		return nil, classifySearchError(err)
	}

	limit := topK
	if s.config.Overfetch > 1 {
		limit = topK * s.config.Overfetch
	}

	scored, err := s.repo.SearchSimilarWithScore(ctx, vector, limit, s.config.Threshold)
	if err != nil {
		return nil, classifySearchError(err)
	}

	results := make([]Result, 0, len(scored))
	for _, hit := range scored {
		if hit.Document == nil {
			continue
		}
		score := hit.Similarity + filenameBoost(query, hit.Document.FileName)
		if score > 1.0 {
			score = 1.0
		}
		results = append(results, Result{
			Path:    hit.Document.Path,
			Preview: hit.Document.Preview,
			Score:   score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	s.logger.Printf("[INDEX] %q matched %d document(s)", query, len(results))
	return results, nil
}

// filenameBoost rewards hits whose file name carries the query: an exact
// phrase match counts more than a single shared term.
func filenameBoost(query, fileName string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	name := strings.ToLower(fileName)
	if q == "" || name == "" {
		return 0
	}
	if strings.Contains(name, q) {
		return 0.3
	}
	for _, term := range strings.Fields(q) {
		if strings.Contains(name, term) {
			return 0.15
		}
	}
	return 0
}

// classifySearchError sorts a backend failure into the retry taxonomy:
// timeouts and dropped connections are transient, anything else means the
// index cannot serve this turn.
func classifySearchError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &TransientError{Err: err}
	case errors.Is(err, driver.ErrBadConn):
		return &TransientError{Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &TransientError{Err: err}
	default:
		return &UnavailableError{Err: err}
	}
}
