package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ai-filesearch-be/internal/repository/implementation"
	"ai-filesearch-be/internal/repository/specification"
	"ai-filesearch-be/pkg/database"
	"ai-filesearch-be/pkg/embedding"

	"github.com/joho/godotenv"
)

// Retrieval diagnostic: runs a set of queries straight against the index
// and prints similarity scores against a grid of candidate thresholds.
func main() {
	// Load environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("DB_CONNECTION_STRING not set")
	}

	// Initialize embedding provider (Ollama - local)
	ollamaBaseURL := os.Getenv("OLLAMA_BASE_URL")
	if ollamaBaseURL == "" {
		ollamaBaseURL = "http://localhost:11434"
	}
	ollamaModel := os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if ollamaModel == "" {
		ollamaModel = "nomic-embed-text"
	}
	embeddingProvider := embedding.NewOllamaProvider(ollamaBaseURL, ollamaModel)

	// Connect to DB
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	fileDocRepo := implementation.NewFileDocumentRepository(db)

	// === THRESHOLDS TO TEST ===
	dbThreshold := 0.0 // Current: No DB-level filtering
	logicThresholds := []float64{0.55, 0.50, 0.45, 0.40, 0.35, 0.30}

	// === TEST QUERIES ===
	queries := []string{
		"find my resume",
		"budget spreadsheet",
		"trip plans for september",
		"annual report",
		"how do I cook carbonara",
	}
	if len(os.Args) > 1 {
		queries = os.Args[1:]
	}

	ctx := context.Background()

	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println("INDEX RETRIEVAL DIAGNOSTIC TOOL")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Printf("DB Threshold: %.2f\n", dbThreshold)
	fmt.Println()

	// First, list everything in the index
	fmt.Println("--- INDEXED DOCUMENTS ---")
	allDocs, err := fileDocRepo.FindAll(ctx)
	if err != nil {
		log.Printf("Failed to fetch documents: %v", err)
	} else {
		for i, doc := range allDocs {
			fmt.Printf("%d. [%s] %s\n", i+1, doc.Extension, doc.Path)
		}
		fmt.Printf("\nTotal: %d documents\n", len(allDocs))
	}

	// Recent activity hints at whether the external indexer is alive
	recent, err := fileDocRepo.Count(ctx, specification.IndexedSince{Since: time.Now().Add(-7 * 24 * time.Hour)})
	if err == nil {
		fmt.Printf("Indexed in the last 7 days: %d\n", recent)
	}
	fmt.Println()

	// Run diagnostics for each query
	for _, query := range queries {
		fmt.Println("-" + strings.Repeat("-", 79))
		fmt.Printf("QUERY: \"%s\"\n", query)
		fmt.Println("-" + strings.Repeat("-", 79))

		// Generate embedding for query
		vector, err := embeddingProvider.Generate(ctx, query, embedding.TaskSearchQuery)
		if err != nil {
			log.Printf("Embedding failed for query '%s': %v", query, err)
			continue
		}

		// Search with no threshold (get all)
		topK := 10
		scoredResults, err := fileDocRepo.SearchSimilarWithScore(
			ctx,
			vector,
			topK,
			dbThreshold, // No DB filtering
		)
		if err != nil {
			log.Printf("Search failed: %v", err)
			continue
		}

		fmt.Printf("\nRaw Results (TopK=%d, DBThreshold=%.2f):\n", topK, dbThreshold)
		fmt.Println()

		// Display all results with scores
		fmt.Printf("%-4s %-40s %-12s", "#", "File", "Similarity")
		for _, thresh := range logicThresholds {
			fmt.Printf(" @%.2f", thresh)
		}
		fmt.Println()
		fmt.Println(strings.Repeat("-", 100))

		for i, res := range scoredResults {
			name := res.Document.FileName
			if len(name) > 38 {
				name = name[:35] + "..."
			}

			fmt.Printf("%-4d %-40s %-12.4f", i+1, name, res.Similarity)

			// Show pass/fail for each threshold
			for _, thresh := range logicThresholds {
				if res.Similarity >= thresh {
					fmt.Print("   Y  ")
				} else {
					fmt.Print("   -  ")
				}
			}
			fmt.Println()
		}
		fmt.Println()

		// Summary
		fmt.Println("Summary by Threshold:")
		for _, thresh := range logicThresholds {
			count := 0
			for _, res := range scoredResults {
				if res.Similarity >= thresh {
					count++
				}
			}
			fmt.Printf("  Threshold %.2f: %d documents pass\n", thresh, count)
		}
		fmt.Println()
	}

	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println("ANALYSIS COMPLETE")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println()
	fmt.Println("Current System Configuration:")
	fmt.Println("  pkg/search/adapter.go:")
	fmt.Println("    - Threshold: 0.0 (no DB-level filtering)")
	fmt.Println("    - Overfetch: 3x  (slack for the filename boost re-rank)")
	fmt.Println("  pkg/rag/search/orchestrator.go:")
	fmt.Println("    - per-phrasing TopK plus frequency/position fusion")
	fmt.Println()
	fmt.Println("Recommendations:")
	fmt.Println("  1. If relevant files score low across the board, re-check the")
	fmt.Println("     embedding model used at index time matches EMBEDDING_PROVIDER")
	fmt.Println("  2. If exact filename queries miss, verify the filename boost in")
	fmt.Println("     pkg/search/adapter.go fires (name must contain a query term)")
}
