package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-filesearch-be/internal/dto"
	"ai-filesearch-be/internal/mapper"
	"ai-filesearch-be/pkg/llm"
	"ai-filesearch-be/pkg/rag/convo"
	"ai-filesearch-be/pkg/rag/executor"
	"ai-filesearch-be/pkg/rag/expand"
	"ai-filesearch-be/pkg/search"
)

// IChatService defines the conversational file-search service interface
type IChatService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
	ClearSession(ctx context.Context, sessionId string) error
}

// chatService runs the turn pipeline and emits turn events on the bus
type chatService struct {
	pipeline         *executor.Pipeline
	publisherService IPublisherService
	chatMapper       *mapper.ChatMapper
	llmLogger        *log.Logger
}

// NewChatService wires the turn pipeline to its collaborators. The
// publisher may be nil; turn events are then skipped.
func NewChatService(
	llmProvider llm.LLMProvider,
	searcher search.Searcher,
	synonyms expand.Table,
	convoStore *convo.Store,
	publisherService IPublisherService,
	tuning executor.Config,
) IChatService {
	llmLogger := initLLMLogger()

	return &chatService{
		pipeline:         executor.NewPipeline(llmProvider, searcher, synonyms, convoStore, llmLogger, tuning),
		publisherService: publisherService,
		chatMapper:       mapper.NewChatMapper(),
		llmLogger:        llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// SendChat processes one utterance for a session. The pipeline never
// returns an error to the caller; failures surface as user-facing replies.
func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	started := time.Now()

	result := cs.pipeline.Execute(ctx, request.SessionId, request.Message, request.MaxResults)

	// Turn events are auxiliary; a publish failure never fails the turn.
	if result.Committed && cs.publisherService != nil {
		payload := dto.PublishTurnCompletedMessage{
			SessionId:  request.SessionId,
			Intent:     result.Intent,
			FileCount:  len(result.Files),
			DurationMs: time.Since(started).Milliseconds(),
			OccurredAt: time.Now(),
		}
		payloadJson, err := json.Marshal(payload)
		if err == nil {
			if err := cs.publisherService.Publish(ctx, payloadJson); err != nil {
				cs.llmLogger.Printf("[CHAT] session %s: failed to publish turn event: %v", request.SessionId, err)
			}
		}
	}

	return cs.chatMapper.ResultToResponse(request.SessionId, result), nil
}

// GetHistory returns the session's recent turns, oldest first.
func (cs *chatService) GetHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	turns := cs.pipeline.History(sessionId)
	return &dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Turns:     cs.chatMapper.TurnsToDTOs(turns),
	}, nil
}

// ClearSession drops the session's conversation state.
func (cs *chatService) ClearSession(ctx context.Context, sessionId string) error {
	cs.pipeline.ClearContext(sessionId)
	return nil
}
