package service

import (
	"context"

	"ai-filesearch-be/internal/dto"
	"ai-filesearch-be/internal/repository/unitofwork"
	pktNats "ai-filesearch-be/pkg/nats"
	"ai-filesearch-be/pkg/rag/convo"

	"github.com/redis/go-redis/v9"
)

type IStatusService interface {
	GetStatus(ctx context.Context) (*dto.StatusResponse, error)
}

// statusService reports index size, session count and the health of the
// optional brokers. Provider names are resolved once at wiring time.
type statusService struct {
	uowFactory        unitofwork.RepositoryFactory
	convoStore        *convo.Store
	rdb               *redis.Client      // may be nil
	eventPublisher    *pktNats.Publisher // may be nil
	llmProvider       string
	llmModel          string
	embeddingProvider string
}

func NewStatusService(
	uowFactory unitofwork.RepositoryFactory,
	convoStore *convo.Store,
	rdb *redis.Client,
	eventPublisher *pktNats.Publisher,
	llmProvider string,
	llmModel string,
	embeddingProvider string,
) IStatusService {
	return &statusService{
		uowFactory:        uowFactory,
		convoStore:        convoStore,
		rdb:               rdb,
		eventPublisher:    eventPublisher,
		llmProvider:       llmProvider,
		llmModel:          llmModel,
		embeddingProvider: embeddingProvider,
	}
}

func (s *statusService) GetStatus(ctx context.Context) (*dto.StatusResponse, error) {
	res := &dto.StatusResponse{
		Status:            "ok",
		ActiveSessions:    s.convoStore.Sessions(),
		LLMProvider:       s.llmProvider,
		LLMModel:          s.llmModel,
		EmbeddingProvider: s.embeddingProvider,
		Database:          "ok",
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.FileDocumentRepository().Count(ctx)
	if err != nil {
		res.Status = "degraded"
		res.Database = err.Error()
	} else {
		res.IndexedFiles = count
	}

	if s.rdb != nil {
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			res.Status = "degraded"
			res.Redis = "down"
		} else {
			res.Redis = "ok"
		}
	}

	if s.eventPublisher != nil {
		if s.eventPublisher.Connected() {
			res.Nats = "ok"
		} else {
			res.Status = "degraded"
			res.Nats = "down"
		}
	}

	return res, nil
}
