// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/constant"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/cache"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/memory"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/events"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm"
	pktNats "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/nats"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/executor"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/response"

	"github.com/google/uuid"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	training ITrainingService // nil when the training store is disabled
	pipeline *executor.PipelineExecutor
	history  *memory.ConversationRepository
	answers  *cache.AnswerCache
	natsPub  *pktNats.Publisher // nil when the event bus is down
	cfg      *config.Config
}

func NewChatService(
	training ITrainingService,
	pipeline *executor.PipelineExecutor,
	history *memory.ConversationRepository,
	answers *cache.AnswerCache,
	natsPub *pktNats.Publisher,
	cfg *config.Config,
) IChatService {
	return &chatService{
		training: training,
		pipeline: pipeline,
		history:  history,
		answers:  answers,
		natsPub:  natsPub,
		cfg:      cfg,
	}
}

// Chat answers the latest user message. Resolution order: training store,
// small-talk rules, shared answer cache, then the retrieval pipeline. Every
// path records the turn in the conversation history.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	start := time.Now()

	question, prior, err := splitQuestion(req.Messages)
	if err != nil {
		return nil, err
	}

	conversationID := req.ConversationId
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	// Client-supplied earlier turns seed conversations this instance has not
	// seen yet (new ones, or expired ones after a restart).
	if len(prior) > 0 && len(s.history.History(conversationID, 1)) == 0 {
		s.history.Append(conversationID, prior...)
	}

	if s.training != nil {
		if answer, found := s.training.FindAnswer(ctx, question); found {
			return s.respondDirect(ctx, conversationID, question, answer, constant.ResponseTypeTrained, start), nil
		}
	}

	if reply, ok := response.DetectSmallTalk(question); ok {
		return s.respondDirect(ctx, conversationID, question, reply, constant.ResponseTypeSmallTalk, start), nil
	}

	if cached, hit := s.answers.Get(ctx, question); hit {
		resp := s.respondDirect(ctx, conversationID, question, cached, constant.ResponseTypeRag, start)
		resp.Cached = true
		return resp, nil
	}

	history := s.history.History(conversationID, s.cfg.Rag.HistoryLimit)

	result, err := s.pipeline.Execute(ctx, question, history)
	if err != nil {
		// The pipeline converts its own failures into canned results, so an
		// error here means something before phase 1 broke (context cancelled,
		// store unreachable). Fall back to the contact message.
		log.Printf("[ERROR] Pipeline failed for conversation %s: %v", conversationID, err)
		return s.respondDirect(ctx, conversationID, question, response.ContactFallback, constant.ResponseTypeError, start), nil
	}

	s.recordTurn(conversationID, question, result.Answer)
	if result.Features.Reason == "" {
		// Only clean full-pipeline answers are worth sharing across instances.
		s.answers.Set(ctx, question, result.Answer)
	}
	s.publishAnswered(ctx, constant.ResponseTypeRag, result.Features.Confidence, result.TotalSources, time.Since(start))

	return toChatResponse(conversationID, result), nil
}

// splitQuestion separates the latest user message from the turns before it.
func splitQuestion(messages []dto.ChatMessageDTO) (string, []llm.Message, error) {
	last := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == constant.ChatMessageRoleUser {
			last = i
			break
		}
	}
	if last == -1 {
		return "", nil, errors.New("request contains no user message")
	}

	prior := make([]llm.Message, 0, last)
	for _, m := range messages[:last] {
		prior = append(prior, llm.Message{Role: m.Role, Content: m.Content})
	}
	return messages[last].Content, prior, nil
}

// respondDirect wraps an answer that skipped the retrieval pipeline.
func (s *chatService) respondDirect(ctx context.Context, conversationID, question, answer, responseType string, start time.Time) *dto.ChatResponse {
	s.recordTurn(conversationID, question, answer)

	elapsed := time.Since(start)
	confidence := executor.ConfidenceHigh
	if responseType == constant.ResponseTypeError {
		confidence = executor.ConfidenceLow
	}
	s.publishAnswered(ctx, responseType, confidence, 0, elapsed)

	return &dto.ChatResponse{
		ConversationId: conversationID,
		ResponseType:   responseType,
		Question:       question,
		Answer:         answer,
		Sources:        []dto.ChatSourceDTO{},
		TotalSources:   0,
		Features: dto.ChatFeaturesDTO{
			DomainRelevant: responseType != constant.ResponseTypeError,
			ResponseTime:   formatElapsed(elapsed),
			Confidence:     confidence,
		},
	}
}

func (s *chatService) recordTurn(conversationID, question, answer string) {
	s.history.Append(conversationID,
		llm.Message{Role: constant.ChatMessageRoleUser, Content: question},
		llm.Message{Role: constant.ChatMessageRoleAssistant, Content: answer},
	)
}

func (s *chatService) publishAnswered(ctx context.Context, responseType, confidence string, totalSources int, duration time.Duration) {
	if s.natsPub == nil {
		return
	}
	evt := events.NewChatAnswered(responseType, confidence, totalSources, duration)
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish chat event: %v", err)
	}
}

func toChatResponse(conversationID string, result *executor.Result) *dto.ChatResponse {
	sources := make([]dto.ChatSourceDTO, len(result.Sources))
	for i, src := range result.Sources {
		sources[i] = dto.ChatSourceDTO{
			Source:      src.Source,
			Filename:    src.Filename,
			Similarity:  src.Similarity,
			RerankScore: src.RerankScore,
			Preview:     src.Preview,
		}
	}
	return &dto.ChatResponse{
		ConversationId: conversationID,
		ResponseType:   constant.ResponseTypeRag,
		Question:       result.Question,
		Answer:         result.Answer,
		Sources:        sources,
		TotalSources:   result.TotalSources,
		Features: dto.ChatFeaturesDTO{
			QueryExpansion: result.Features.QueryExpansion,
			Reranking:      result.Features.Reranking,
			DomainRelevant: result.Features.DomainRelevant,
			UsedFallback:   result.Features.UsedFallback,
			ResponseTime:   result.Features.ResponseTime,
			Confidence:     result.Features.Confidence,
			Reason:         result.Features.Reason,
		},
	}
}

// formatElapsed matches the pipeline's response_time format.
func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
