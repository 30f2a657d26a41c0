package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-filesearch-be/internal/entity"
	"ai-filesearch-be/internal/repository/specification"
	"ai-filesearch-be/internal/repository/unitofwork"
	"ai-filesearch-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

const embeddingDims = 768

// unitVector returns a vector with a single 1.0 component, so cosine
// similarity between fixtures is exactly 1.0 (same axis) or 0.0.
func unitVector(axis int) []float32 {
	v := make([]float32, embeddingDims)
	v[axis%embeddingDims] = 1.0
	return v
}

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.FileDocumentRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check File Document Repository", func(t *testing.T) {
		count, err := uow.FileDocumentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("FileDocument count: %d", count)
	})
}

func TestFileDocumentIndexRoundTrip(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)

	// Everything runs inside one transaction that is rolled back at the
	// end, so the test leaves no rows behind.
	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer uow.Rollback()

	repo := uow.FileDocumentRepository()
	marker := uuid.New().String()

	docs := []*entity.FileDocument{
		{
			Path:       "/it/" + marker + "/alpha_notes.md",
			FileName:   "alpha_notes.md",
			Extension:  "md",
			Preview:    "alpha preview",
			Content:    "alpha content",
			Embedding:  unitVector(0),
			Metadata:   map[string]any{"origin": "integration"},
			SizeBytes:  128,
			ModifiedAt: time.Now().UTC(),
		},
		{
			Path:       "/it/" + marker + "/beta_report.pdf",
			FileName:   "beta_report.pdf",
			Extension:  "pdf",
			Preview:    "beta preview",
			Content:    "beta content",
			Embedding:  unitVector(1),
			Metadata:   map[string]any{"origin": "integration"},
			SizeBytes:  4096,
			ModifiedAt: time.Now().UTC(),
		},
	}

	t.Run("CreateBulk assigns ids", func(t *testing.T) {
		err := repo.CreateBulk(ctx, docs)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, docs[0].Id)
		assert.NotEqual(t, uuid.Nil, docs[1].Id)

		byId, err := repo.FindOne(ctx, specification.ByID{ID: docs[0].Id})
		assert.NoError(t, err)
		if assert.NotNil(t, byId) {
			assert.Equal(t, docs[0].Path, byId.Path)
		}
	})

	t.Run("Upsert replaces by path without duplicating", func(t *testing.T) {
		replacement := &entity.FileDocument{
			Path:       docs[0].Path,
			FileName:   docs[0].FileName,
			Extension:  docs[0].Extension,
			Preview:    "alpha preview v2",
			Content:    "alpha content v2",
			Embedding:  unitVector(0),
			SizeBytes:  256,
			ModifiedAt: time.Now().UTC(),
		}
		err := repo.Upsert(ctx, replacement)
		assert.NoError(t, err)

		count, err := repo.Count(ctx, specification.PathContains{Fragment: marker})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)

		found, err := repo.FindOne(ctx, specification.ByPath{Path: docs[0].Path})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, "alpha preview v2", found.Preview)
		}
	})

	t.Run("Specifications filter by extension and name", func(t *testing.T) {
		pdfs, err := repo.FindAll(ctx,
			specification.PathContains{Fragment: marker},
			specification.ByExtension{Extension: "pdf"},
		)
		assert.NoError(t, err)
		if assert.Len(t, pdfs, 1) {
			assert.Equal(t, "beta_report.pdf", pdfs[0].FileName)
		}

		named, err := repo.FindAll(ctx,
			specification.PathContains{Fragment: marker},
			specification.FileNameContains{Fragment: "alpha"},
		)
		assert.NoError(t, err)
		assert.Len(t, named, 1)
	})

	t.Run("Similarity search ranks the matching axis first", func(t *testing.T) {
		scored, err := repo.SearchSimilarWithScore(ctx, unitVector(1), 5, 0.5)
		assert.NoError(t, err)

		// Threshold 0.5 keeps only the doc on the same axis (similarity 1.0)
		// among our fixtures; rows from other tests may also qualify, so
		// check membership rather than exact length.
		var hit bool
		for _, s := range scored {
			if s.Document != nil && s.Document.Path == docs[1].Path {
				hit = true
				assert.InDelta(t, 1.0, s.Similarity, 0.001)
			}
		}
		assert.True(t, hit, "expected beta_report.pdf among similarity hits")
	})

	t.Run("DeleteByPath removes the row", func(t *testing.T) {
		err := repo.DeleteByPath(ctx, docs[1].Path)
		assert.NoError(t, err)

		count, err := repo.Count(ctx, specification.PathContains{Fragment: marker})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
