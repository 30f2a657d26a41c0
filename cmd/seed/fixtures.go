package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"ai-filesearch-be/internal/entity"
	"ai-filesearch-be/pkg/embedding"
	"ai-filesearch-be/pkg/utils"
)

const (
	embedChunkSize    = 1500
	embedChunkOverlap = 200
	previewLength     = 240
)

// fixtureDoc is the raw material for one seeded index row.
type fixtureDoc struct {
	Path       string
	Content    string
	SizeBytes  int64
	ModifiedAt time.Time
}

var fixtureDocuments = []fixtureDoc{
	{
		Path:       "/home/demo/documents/resume_jane_smith.pdf",
		Content:    "Jane Smith. Senior Software Engineer with 8 years of experience in backend development, distributed systems and cloud infrastructure. Skills: Go, PostgreSQL, Kubernetes, AWS. Work history: Lead Engineer at Meridian Labs (2021-2025), Backend Engineer at Corewave (2017-2021). Education: BSc Computer Science, University of Washington.",
		SizeBytes:  84213,
		ModifiedAt: time.Date(2025, 6, 2, 9, 15, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/documents/cover_letter_meridian.docx",
		Content:    "Dear Hiring Manager, I am writing to apply for the Senior Software Engineer position at Meridian Labs. My background in building high-throughput data pipelines and my experience leading a platform team make me a strong fit for this role.",
		SizeBytes:  23410,
		ModifiedAt: time.Date(2025, 5, 28, 14, 40, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/finance/budget_2025.xlsx",
		Content:    "Household budget for 2025. Monthly income, rent, utilities, groceries, transport, savings targets and an emergency fund projection. Q1 actuals versus plan, with a summary sheet tracking yearly totals per category.",
		SizeBytes:  45102,
		ModifiedAt: time.Date(2025, 4, 11, 19, 3, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/finance/tax_return_2024.pdf",
		Content:    "Federal income tax return for fiscal year 2024. Form 1040 with attached schedules, reported wages, deductions, capital gains from brokerage account, and the final refund amount.",
		SizeBytes:  162330,
		ModifiedAt: time.Date(2025, 3, 30, 11, 20, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/finance/invoice_march_webdesign.pdf",
		Content:    "Invoice #2025-031 issued to Bluefield Consulting for website redesign services. Line items: homepage redesign, responsive layout work, CMS migration. Total due: $4,800. Payment terms: net 30.",
		SizeBytes:  38770,
		ModifiedAt: time.Date(2025, 3, 4, 8, 55, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/projects/roadmap_q3.md",
		Content:    "Q3 product roadmap. Priorities: search relevance improvements, websocket event streaming, conversational context memory, index rebuild tooling. Stretch goals: multi-language query expansion and a status dashboard.",
		SizeBytes:  6120,
		ModifiedAt: time.Date(2025, 6, 20, 16, 10, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/projects/meeting_notes_2025-07-14.md",
		Content:    "Weekly sync notes, July 14. Discussed the reranker rollout, flaky embedding provider timeouts, and the decision to keep the index writer outside the chat service. Action items: Maya to draft the migration plan, Tom to benchmark hnsw parameters.",
		SizeBytes:  4880,
		ModifiedAt: time.Date(2025, 7, 14, 18, 0, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/travel/itinerary_lisbon_trip.pdf",
		Content:    "Travel itinerary for the Lisbon trip, September 12 to 19. Flight numbers, hotel confirmation in Alfama, day plans for Sintra and Cascais, restaurant reservations and the train schedule to Porto.",
		SizeBytes:  91240,
		ModifiedAt: time.Date(2025, 7, 2, 21, 30, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/recipes/pasta_carbonara.txt",
		Content:    "Classic pasta carbonara recipe. Ingredients: spaghetti, guanciale, eggs, pecorino romano, black pepper. Method: render the guanciale, temper the egg and cheese mixture off the heat, toss with pasta water until glossy. Serves four.",
		SizeBytes:  1920,
		ModifiedAt: time.Date(2025, 1, 8, 12, 45, 0, 0, time.UTC),
	},
	{
		Path:       "/home/demo/reports/annual_report_2024.pdf",
		Content:    "Annual report 2024. Revenue grew 23 percent year over year, driven by the enterprise tier. Operating costs, headcount growth, infrastructure spend and the outlook for 2025 including planned investment in retrieval quality.",
		SizeBytes:  523400,
		ModifiedAt: time.Date(2025, 2, 15, 10, 5, 0, 0, time.UTC),
	},
}

// buildDocument turns a fixture into an index row, embedding the first
// content chunk the same way the external indexer does.
func buildDocument(ctx context.Context, provider embedding.EmbeddingProvider, fx fixtureDoc) (*entity.FileDocument, error) {
	chunks := utils.SplitText(fx.Content, embedChunkSize, embedChunkOverlap)
	vector, err := provider.Generate(ctx, chunks[0], embedding.TaskSearchDocument)
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(fx.Path)

	preview := utils.NormalizeSpace(fx.Content)
	if runes := []rune(preview); len(runes) > previewLength {
		preview = string(runes[:previewLength])
	}

	return &entity.FileDocument{
		Path:       fx.Path,
		FileName:   fileName,
		Extension:  strings.TrimPrefix(filepath.Ext(fileName), "."),
		Preview:    preview,
		Content:    fx.Content,
		Embedding:  vector,
		Metadata:   map[string]any{"origin": "seed"},
		SizeBytes:  fx.SizeBytes,
		ModifiedAt: fx.ModifiedAt,
	}, nil
}
