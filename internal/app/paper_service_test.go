package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"researchhub/internal/arxiv"
	"researchhub/internal/model"
	"researchhub/internal/repository"
)

type fakeSearcher struct {
	results     []arxiv.PaperMeta
	searchErr   error
	pdf         []byte
	downloadErr error
}

func (f *fakeSearcher) Search(context.Context, string) ([]arxiv.PaperMeta, error) {
	return f.results, f.searchErr
}

func (f *fakeSearcher) DownloadPDF(context.Context, string) ([]byte, error) {
	return f.pdf, f.downloadErr
}

func newPaperFixture(t *testing.T, searcher PaperSearcher) (*PaperService, *repository.WorkspaceRepository, *repository.PaperRepository) {
	t.Helper()
	db := newTestDB(t)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	paperRepo := repository.NewPaperRepository(db)
	svc := NewPaperService(workspaceRepo, paperRepo, searcher, nil, zap.NewNop())
	return svc, workspaceRepo, paperRepo
}

func TestSearch_MapsServiceFailure(t *testing.T) {
	svc, _, _ := newPaperFixture(t, &fakeSearcher{searchErr: errors.New("network down")})

	_, err := svc.Search(context.Background(), "transformers")
	require.ErrorIs(t, err, ErrSearchFailed)
}

func TestImport_ToleratesPDFFailure(t *testing.T) {
	svc, workspaceRepo, paperRepo := newPaperFixture(t, &fakeSearcher{
		downloadErr: errors.New("404"),
	})

	workspace := &model.Workspace{Name: "ws", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))

	paper, err := svc.Import(context.Background(), ImportInput{
		UserID:      1,
		WorkspaceID: workspace.ID,
		Title:       "Attention Is All You Need",
		Authors:     "Vaswani et al.",
		Abstract:    "We propose the Transformer.",
		Date:        "2017-06-12",
		URL:         "https://arxiv.org/abs/1706.03762",
	})
	require.NoError(t, err, "extraction failure must not fail the import")
	require.Empty(t, paper.FullText)

	stored, err := paperRepo.ListByWorkspaceID(workspace.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "Attention Is All You Need", stored[0].Title)
}

func TestImport_ForeignWorkspaceReadsAsNotFound(t *testing.T) {
	svc, workspaceRepo, _ := newPaperFixture(t, &fakeSearcher{})

	workspace := &model.Workspace{Name: "private", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))

	_, err := svc.Import(context.Background(), ImportInput{
		UserID:      2,
		WorkspaceID: workspace.ID,
		Title:       "Sneaky",
	})
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestUpload_BuildsTitleAndAbstract(t *testing.T) {
	svc, workspaceRepo, _ := newPaperFixture(t, &fakeSearcher{})

	workspace := &model.Workspace{Name: "ws", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))

	// Not a valid PDF: extraction fails and is tolerated.
	paper, err := svc.Upload(context.Background(), UploadInput{
		UserID:      1,
		WorkspaceID: workspace.ID,
		Filename:    "my survey.pdf",
		Data:        []byte("not a pdf"),
	})
	require.NoError(t, err)
	require.Equal(t, "my survey", paper.Title)
	require.Equal(t, "Uploaded by user", paper.Authors)
	require.Empty(t, paper.FullText)
}

func TestDelete_Ownership(t *testing.T) {
	svc, workspaceRepo, paperRepo := newPaperFixture(t, &fakeSearcher{})

	workspace := &model.Workspace{Name: "ws", UserID: 1}
	require.NoError(t, workspaceRepo.Create(workspace))
	paper := &model.Paper{WorkspaceID: workspace.ID, Title: "kept"}
	require.NoError(t, paperRepo.Create(paper))

	require.ErrorIs(t, svc.Delete(2, paper.ID), ErrPaperNotFound,
		"another user's delete must read as not-found")

	require.NoError(t, svc.Delete(1, paper.ID))
	remaining, err := paperRepo.ListByWorkspaceID(workspace.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)
}
