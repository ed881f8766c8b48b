package app

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"researchhub/internal/ai"
	"researchhub/internal/model"
	"researchhub/internal/repository"
)

// unitVec builds a 2-d unit vector whose cosine similarity against (1,0)
// equals c.
func unitVec(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
}

func newChatFixture(t *testing.T, embedder EmbeddingClient, completer CompletionClient) (*ChatService, *repository.WorkspaceRepository, *repository.PaperRepository, *repository.ChatRepository) {
	t.Helper()
	db := newTestDB(t)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	paperRepo := repository.NewPaperRepository(db)
	chatRepo := repository.NewChatRepository(db)
	svc := NewChatService(
		workspaceRepo, paperRepo, chatRepo,
		embedder, completer, nil,
		ai.EmbeddingConfig{}, ai.ChatConfig{},
		zap.NewNop(),
	)
	return svc, workspaceRepo, paperRepo, chatRepo
}

func TestAsk_EmptyWorkspaceSkipsModel(t *testing.T) {
	completer := &fakeCompleter{response: "should not be used"}
	svc, workspaceRepo, _, chatRepo := newChatFixture(t, &fakeEmbedder{}, completer)

	workspace := &model.Workspace{Name: "empty", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))

	result, err := svc.Ask(context.Background(), AskInput{
		UserID:      1,
		WorkspaceID: workspace.ID,
		Message:     "anything at all",
	})
	require.NoError(t, err)
	require.Equal(t, noPapersResponse, result.Response)
	require.False(t, completer.called, "completion service must not be invoked for an empty workspace")

	chats, err := chatRepo.ListByWorkspaceID(workspace.ID)
	require.NoError(t, err)
	require.Empty(t, chats, "the canned reply must not be persisted")
}

func TestAsk_RanksAndPersistsTurn(t *testing.T) {
	question := "what is attention?"
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		question:  {1, 0},
		"about A": unitVec(0.9),
		"about B": unitVec(0.05),
		"about C": unitVec(0.4),
		"about D": unitVec(0.25),
	}}
	completer := &fakeCompleter{response: "attention is all you need"}
	svc, workspaceRepo, paperRepo, chatRepo := newChatFixture(t, embedder, completer)

	workspace := &model.Workspace{Name: "ml", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))
	for _, p := range []model.Paper{
		{WorkspaceID: workspace.ID, Title: "Paper A", Authors: "a", Abstract: "about A"},
		{WorkspaceID: workspace.ID, Title: "Paper B", Authors: "b", Abstract: "about B"},
		{WorkspaceID: workspace.ID, Title: "Paper C", Authors: "c", Abstract: "about C"},
		{WorkspaceID: workspace.ID, Title: "Paper D", Authors: "d", Abstract: "about D"},
	} {
		paper := p
		require.NoError(t, paperRepo.Create(&paper))
	}

	result, err := svc.Ask(context.Background(), AskInput{
		UserID:      1,
		WorkspaceID: workspace.ID,
		Message:     question,
	})
	require.NoError(t, err)
	require.Equal(t, "attention is all you need", result.Response)

	require.True(t, completer.called)
	require.Len(t, completer.messages, 2)
	prompt := completer.messages[1].Content

	// Papers above the threshold, descending: A (0.9), C (0.4), D (0.25).
	posA := strings.Index(prompt, "Title: Paper A")
	posC := strings.Index(prompt, "Title: Paper C")
	posD := strings.Index(prompt, "Title: Paper D")
	require.True(t, posA >= 0 && posC > posA && posD > posC,
		"context papers out of order: A=%d C=%d D=%d", posA, posC, posD)
	require.NotContains(t, prompt, "Paper B", "below-threshold paper must be excluded")
	require.Contains(t, prompt, question)

	chats, err := chatRepo.ListByWorkspaceID(workspace.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, question, chats[0].Message)
	require.Equal(t, "attention is all you need", chats[0].Response)
}

func TestAsk_WorkspaceOwnership(t *testing.T) {
	svc, workspaceRepo, _, _ := newChatFixture(t, &fakeEmbedder{}, &fakeCompleter{})

	workspace := &model.Workspace{Name: "private", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))

	_, err := svc.Ask(context.Background(), AskInput{
		UserID:      2,
		WorkspaceID: workspace.ID,
		Message:     "peeking",
	})
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestClearHistory_Idempotent(t *testing.T) {
	svc, workspaceRepo, _, chatRepo := newChatFixture(t, &fakeEmbedder{}, &fakeCompleter{})

	workspace := &model.Workspace{Name: "ws", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))
	require.NoError(t, chatRepo.Create(&model.Chat{
		WorkspaceID: workspace.ID, Message: "q", Response: "a",
	}))

	require.NoError(t, svc.ClearHistory(1, workspace.ID))
	chats, err := chatRepo.ListByWorkspaceID(workspace.ID)
	require.NoError(t, err)
	require.Empty(t, chats)

	require.NoError(t, svc.ClearHistory(1, workspace.ID), "second clear must not error")
	chats, err = chatRepo.ListByWorkspaceID(workspace.ID)
	require.NoError(t, err)
	require.Empty(t, chats)
}

func TestHistory_AppendOrder(t *testing.T) {
	svc, workspaceRepo, _, chatRepo := newChatFixture(t, &fakeEmbedder{}, &fakeCompleter{})

	workspace := &model.Workspace{Name: "ws", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))
	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, chatRepo.Create(&model.Chat{
			WorkspaceID: workspace.ID, Message: msg, Response: "r-" + msg,
		}))
	}

	chats, err := svc.History(1, workspace.ID)
	require.NoError(t, err)
	require.Len(t, chats, 3)
	require.Equal(t, "one", chats[0].Message)
	require.Equal(t, "three", chats[2].Message)
}
