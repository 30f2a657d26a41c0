package main

import (
	"context"
	"log"

	"ai-filesearch-be/internal/config"
	"ai-filesearch-be/internal/repository/unitofwork"
	"ai-filesearch-be/pkg/database"
	"ai-filesearch-be/pkg/embedding"
	"ai-filesearch-be/pkg/embedding/jina"
)

// Seeds the index with a small fixture corpus so chat and search have
// something to find on a fresh database. Safe to re-run: documents are
// upserted by path.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// Same provider selection as the app container
	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		provider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Println("Using Embedding Provider: JINA AI")
	} else {
		provider = embedding.NewGeminiProvider(cfg.Keys.Gemini)
		log.Println("Using Embedding Provider: GEMINI")
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to begin transaction: %v", err)
	}
	repo := uow.FileDocumentRepository()

	log.Printf("Seeding %d fixture documents...", len(fixtureDocuments))

	for _, fx := range fixtureDocuments {
		doc, err := buildDocument(ctx, provider, fx)
		if err != nil {
			log.Printf("Warn: Skipping %s (embedding failed): %v", fx.Path, err)
			continue
		}
		if err := repo.Upsert(ctx, doc); err != nil {
			uow.Rollback()
			log.Fatalf("Error: Upsert failed for %s: %v", fx.Path, err)
		}
		log.Printf("Seeded: %s", fx.Path)
	}

	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Commit failed: %v", err)
	}

	log.Println("✅ Success: Fixture documents seeded.")
}
