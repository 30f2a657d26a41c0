package mapper

import (
	"ai-filesearch-be/internal/dto"
	"ai-filesearch-be/pkg/rag/executor"
	"ai-filesearch-be/pkg/store"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) CandidateToDTO(c store.Candidate) dto.FileResultDTO {
	return dto.FileResultDTO{
		Path:     c.Path,
		FileName: c.Name(),
		Preview:  c.Preview,
		Score:    c.Similarity,
	}
}

func (m *ChatMapper) CandidatesToDTOs(cs []store.Candidate) []dto.FileResultDTO {
	if len(cs) == 0 {
		return nil
	}
	out := make([]dto.FileResultDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, m.CandidateToDTO(c))
	}
	return out
}

func (m *ChatMapper) ResultToResponse(sessionId string, res executor.Result) *dto.SendChatResponse {
	return &dto.SendChatResponse{
		SessionId: sessionId,
		Reply:     res.Reply,
		Intent:    res.Intent,
		Files:     m.CandidatesToDTOs(res.Files),
		Reasoning: res.Reasoning,
	}
}

func (m *ChatMapper) TurnsToDTOs(turns []store.Turn) []dto.ChatTurnDTO {
	out := make([]dto.ChatTurnDTO, 0, len(turns))
	for _, t := range turns {
		out = append(out, dto.ChatTurnDTO{
			Role:      t.Role,
			Text:      t.Text,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}
