package service

import (
	"context"
	"path/filepath"

	"ai-filesearch-be/internal/dto"
	"ai-filesearch-be/internal/entity"
	"ai-filesearch-be/internal/repository/specification"
	"ai-filesearch-be/internal/repository/unitofwork"
	"ai-filesearch-be/pkg/llm"
	"ai-filesearch-be/pkg/rag/expand"
	pkgSearch "ai-filesearch-be/pkg/search"
)

type ISearchService interface {
	Search(ctx context.Context, request *dto.SearchRequest) ([]*dto.SearchResponseItem, error)
}

// searchService answers the direct search endpoint: slash filters and
// short queries hit the database literally, everything else goes through
// the vector index.
type searchService struct {
	uowFactory unitofwork.RepositoryFactory
	searcher   pkgSearch.Searcher
	expander   *expand.Expander
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	searcher pkgSearch.Searcher,
	llmProvider llm.LLMProvider,
	synonyms expand.Table,
) ISearchService {
	return &searchService{
		uowFactory: uowFactory,
		searcher:   searcher,
		expander:   expand.NewExpander(llmProvider, synonyms, initLLMLogger(), expand.DefaultConfig()),
	}
}

const defaultSearchTopK = 10

func (s *searchService) Search(ctx context.Context, request *dto.SearchRequest) ([]*dto.SearchResponseItem, error) {
	topK := request.TopK
	if topK <= 0 {
		topK = defaultSearchTopK
	}

	// === SLASH COMMAND PARSING ===
	// Extract filters like /ext:, /in:, /name:
	filters := pkgSearch.ParseQuery(request.Query)
	hasFilters := filters.Extension != "" || filters.PathFragment != "" || filters.NameFragment != ""

	if hasFilters {
		// STRATEGY: LITERAL FILTER (bypass the vector index)
		specs := make([]specification.Specification, 0, 5)

		if filters.Extension != "" {
			specs = append(specs, specification.ByExtension{Extension: filters.Extension})
		}
		if filters.PathFragment != "" {
			specs = append(specs, specification.PathContains{Fragment: filters.PathFragment})
		}
		if filters.NameFragment != "" {
			specs = append(specs, specification.FileNameContains{Fragment: filters.NameFragment})
		}
		if filters.SearchQuery != "" {
			// Remaining free text matches name, path or preview
			specs = append(specs, specification.DocumentSearchQuery{Query: filters.SearchQuery})
		}
		specs = append(specs,
			specification.OrderBy{Field: "file_name"},
			specification.Pagination{Limit: topK},
		)

		uow := s.uowFactory.NewUnitOfWork(ctx)
		docs, err := uow.FileDocumentRepository().FindAll(ctx, specs...)
		if err != nil {
			return nil, err
		}
		return documentsToItems(docs, "literal_filter"), nil
	}

	// === SMART SEARCH STRATEGY ===
	// No manual filters -> decide between Literal or Semantic based on query
	if pkgSearch.DetermineStrategy(request.Query) == pkgSearch.StrategyLiteral {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		docs, err := uow.FileDocumentRepository().FindAll(ctx,
			specification.DocumentSearchQuery{Query: request.Query},
			specification.OrderBy{Field: "file_name"},
			specification.Pagination{Limit: topK},
		)
		if err != nil {
			return nil, err
		}
		return documentsToItems(docs, "literal"), nil
	}

	query := request.Query
	if request.Expand {
		query = s.expander.Expand(ctx, query)
	}

	results, err := s.searcher.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SearchResponseItem, 0, len(results))
	for _, r := range results {
		score := r.Score
		items = append(items, &dto.SearchResponseItem{
			Path:       r.Path,
			FileName:   filepath.Base(r.Path),
			Preview:    r.Preview,
			Score:      &score,
			SearchType: "semantic",
		})
	}
	return items, nil
}

func documentsToItems(docs []*entity.FileDocument, searchType string) []*dto.SearchResponseItem {
	items := make([]*dto.SearchResponseItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, &dto.SearchResponseItem{
			Path:       d.Path,
			FileName:   d.FileName,
			Preview:    d.Preview,
			SearchType: searchType,
		})
	}
	return items
}
