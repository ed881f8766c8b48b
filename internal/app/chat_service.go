package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"researchhub/internal/ai"
	"researchhub/internal/metrics"
	"researchhub/internal/model"
	"researchhub/internal/repository"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrMessageEmpty      = errors.New("message content is empty")
)

const systemPrompt = "You are a research assistant helping analyze academic papers. " +
	"Provide precise, evidence-based answers based on the full paper content provided. " +
	"Cite specific sections or findings when possible. If the content doesn't contain " +
	"enough information to answer the question, say so clearly."

const noPapersResponse = "I don't have any papers to analyze in this workspace yet. " +
	"Please import some papers first by going to 'Search Papers' and clicking " +
	"'Import to Workspace' on papers you're interested in."

// EmbeddingClient and CompletionClient are satisfied by *ai.OpenAICompatibleClient.
type EmbeddingClient interface {
	Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error)
}

type CompletionClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// EmbeddingCache is optional; a nil cache means every embedding is recomputed.
type EmbeddingCache interface {
	Get(ctx context.Context, paperID uint, text string) ([]float32, bool, error)
	Set(ctx context.Context, paperID uint, text string, vec []float32) error
}

type ChatService struct {
	workspaceRepo *repository.WorkspaceRepository
	paperRepo     *repository.PaperRepository
	chatRepo      *repository.ChatRepository
	embedClient   EmbeddingClient
	completeCli   CompletionClient
	embCache      EmbeddingCache
	embConfig     ai.EmbeddingConfig
	chatConfig    ai.ChatConfig
	logger        *zap.Logger
}

func NewChatService(
	workspaceRepo *repository.WorkspaceRepository,
	paperRepo *repository.PaperRepository,
	chatRepo *repository.ChatRepository,
	embedClient EmbeddingClient,
	completeCli CompletionClient,
	embCache EmbeddingCache,
	embConfig ai.EmbeddingConfig,
	chatConfig ai.ChatConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		workspaceRepo: workspaceRepo,
		paperRepo:     paperRepo,
		chatRepo:      chatRepo,
		embedClient:   embedClient,
		completeCli:   completeCli,
		embCache:      embCache,
		embConfig:     embConfig,
		chatConfig:    chatConfig,
		logger:        logger,
	}
}

type AskInput struct {
	UserID      uint
	WorkspaceID uint
	Message     string
}

type AskResult struct {
	Response string `json:"response"`
}

// Ask answers a workspace question: embed the query, rank the workspace's
// papers by cosine similarity, build a context from the top papers, call the
// completion model, and persist the turn. An empty workspace short-circuits
// with a canned reply and never reaches the model.
func (s *ChatService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	if input.UserID == 0 || input.WorkspaceID == 0 {
		return nil, ErrInvalidInput
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrMessageEmpty
	}

	workspace, err := s.workspaceRepo.GetByIDAndUserID(input.WorkspaceID, input.UserID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	papers, err := s.paperRepo.ListByWorkspaceID(input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return &AskResult{Response: noPapersResponse}, nil
	}

	metrics.ChatRequests.Inc()

	queryVec, err := s.embedClient.Embed(ctx, s.embConfig, message)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	scores := make([]float32, len(papers))
	for i := range papers {
		paperVec, err := s.paperEmbedding(ctx, papers[i])
		if err != nil {
			return nil, fmt.Errorf("embed paper %d failed: %w", papers[i].ID, err)
		}
		scores[i] = cosineSimilarity(queryVec, paperVec)
	}

	ranked, fellBack := rankPapers(papers, scores)
	if fellBack {
		metrics.RetrievalFallbacks.Inc()
		s.logger.Info("no paper cleared the similarity threshold, using stored order",
			zap.Uint("workspace_id", input.WorkspaceID),
			zap.Int("papers", len(papers)),
		)
	}

	contextBlock := buildContext(ranked)
	messages := []ai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"I have the following research papers:\n\n%s\n\nBased on these papers, please answer: %s",
			contextBlock, message)},
	}

	response, err := s.completeCli.Complete(ctx, s.chatConfig, messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	chat := &model.Chat{
		WorkspaceID: input.WorkspaceID,
		Message:     message,
		Response:    response,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, err
	}

	return &AskResult{Response: response}, nil
}

// paperEmbedding returns the paper's embedding, going through the
// content-keyed cache when one is configured. Cache failures degrade to
// recomputation; they never fail the request.
func (s *ChatService) paperEmbedding(ctx context.Context, paper model.Paper) ([]float32, error) {
	text := embeddingInput(paper)

	if s.embCache != nil {
		vec, ok, err := s.embCache.Get(ctx, paper.ID, text)
		if err != nil {
			s.logger.Warn("embedding cache read failed", zap.Uint("paper_id", paper.ID), zap.Error(err))
		} else if ok {
			return vec, nil
		}
	}

	vec, err := s.embedClient.Embed(ctx, s.embConfig, text)
	if err != nil {
		return nil, err
	}

	if s.embCache != nil {
		if err := s.embCache.Set(ctx, paper.ID, text, vec); err != nil {
			s.logger.Warn("embedding cache write failed", zap.Uint("paper_id", paper.ID), zap.Error(err))
		}
	}
	return vec, nil
}

func (s *ChatService) History(userID, workspaceID uint) ([]model.Chat, error) {
	if userID == 0 || workspaceID == 0 {
		return nil, ErrInvalidInput
	}
	workspace, err := s.workspaceRepo.GetByIDAndUserID(workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}
	return s.chatRepo.ListByWorkspaceID(workspaceID)
}

func (s *ChatService) ClearHistory(userID, workspaceID uint) error {
	if userID == 0 || workspaceID == 0 {
		return ErrInvalidInput
	}
	workspace, err := s.workspaceRepo.GetByIDAndUserID(workspaceID, userID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrWorkspaceNotFound
	}
	return s.chatRepo.DeleteByWorkspaceID(workspaceID)
}
