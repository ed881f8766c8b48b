package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"researchhub/internal/arxiv"
	"researchhub/internal/metrics"
	"researchhub/internal/model"
	"researchhub/internal/pkg/pdfextract"
	"researchhub/internal/repository"
)

var (
	ErrPaperNotFound = errors.New("paper not found")
	ErrSearchFailed  = errors.New("paper search failed")
)

const uploadAbstractLimit = 500

// PaperSearcher is satisfied by *arxiv.Client.
type PaperSearcher interface {
	Search(ctx context.Context, query string) ([]arxiv.PaperMeta, error)
	DownloadPDF(ctx context.Context, pageURL string) ([]byte, error)
}

// PDFArchive is optional raw-PDF object storage; satisfied by *s3.Client.
type PDFArchive interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

type PaperService struct {
	workspaceRepo *repository.WorkspaceRepository
	paperRepo     *repository.PaperRepository
	searcher      PaperSearcher
	archive       PDFArchive
	logger        *zap.Logger
}

func NewPaperService(
	workspaceRepo *repository.WorkspaceRepository,
	paperRepo *repository.PaperRepository,
	searcher PaperSearcher,
	archive PDFArchive,
	logger *zap.Logger,
) *PaperService {
	return &PaperService{
		workspaceRepo: workspaceRepo,
		paperRepo:     paperRepo,
		searcher:      searcher,
		archive:       archive,
		logger:        logger,
	}
}

// Search proxies the external bibliographic API. Results are not persisted.
func (s *PaperService) Search(ctx context.Context, query string) ([]arxiv.PaperMeta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	papers, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Error("arxiv search failed", zap.String("query", query), zap.Error(err))
		return nil, ErrSearchFailed
	}
	return papers, nil
}

type ImportInput struct {
	UserID      uint
	WorkspaceID uint
	Title       string
	Authors     string
	Abstract    string
	Date        string
	URL         string
}

// Import persists a paper into the caller's workspace, attempting best-effort
// full-text extraction from the paper's PDF. Download or extraction failures
// store an empty full text; they never fail the import.
func (s *PaperService) Import(ctx context.Context, input ImportInput) (*model.Paper, error) {
	if input.UserID == 0 || input.WorkspaceID == 0 || strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidInput
	}

	workspace, err := s.workspaceRepo.GetByIDAndUserID(input.WorkspaceID, input.UserID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	fullText := ""
	if input.URL != "" {
		data, err := s.searcher.DownloadPDF(ctx, input.URL)
		if err != nil {
			s.logger.Warn("pdf download failed, importing without full text",
				zap.String("url", input.URL), zap.Error(err))
		} else {
			text, err := pdfextract.ExtractText(bytes.NewReader(data))
			if err != nil {
				s.logger.Warn("pdf extraction failed, importing without full text",
					zap.String("url", input.URL), zap.Error(err))
			} else {
				fullText = text
			}
			s.archivePDF(ctx, input.WorkspaceID, input.Title, data)
		}
	}

	paper := &model.Paper{
		WorkspaceID: input.WorkspaceID,
		Title:       strings.TrimSpace(input.Title),
		Authors:     strings.TrimSpace(input.Authors),
		Abstract:    input.Abstract,
		FullText:    fullText,
		Date:        input.Date,
		URL:         input.URL,
	}
	if err := s.paperRepo.Create(paper); err != nil {
		return nil, err
	}
	metrics.PapersImported.Inc()
	return paper, nil
}

type UploadInput struct {
	UserID      uint
	WorkspaceID uint
	Filename    string
	Data        []byte
}

// Upload persists a user-provided PDF as a paper. The title comes from the
// filename and the abstract from the head of the extracted text.
func (s *PaperService) Upload(ctx context.Context, input UploadInput) (*model.Paper, error) {
	if input.UserID == 0 || input.WorkspaceID == 0 || len(input.Data) == 0 {
		return nil, ErrInvalidInput
	}

	workspace, err := s.workspaceRepo.GetByIDAndUserID(input.WorkspaceID, input.UserID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	fullText, err := pdfextract.ExtractText(bytes.NewReader(input.Data))
	if err != nil {
		s.logger.Warn("pdf extraction failed, storing without full text",
			zap.String("filename", input.Filename), zap.Error(err))
		fullText = ""
	}

	title := strings.TrimSuffix(input.Filename, filepath.Ext(input.Filename))
	if title == "" {
		title = "Untitled"
	}

	abstract := fullText
	if len([]rune(fullText)) > uploadAbstractLimit {
		abstract = strings.TrimSpace(string([]rune(fullText)[:uploadAbstractLimit])) + "..."
	}

	s.archivePDF(ctx, input.WorkspaceID, title, input.Data)

	paper := &model.Paper{
		WorkspaceID: input.WorkspaceID,
		Title:       title,
		Authors:     "Uploaded by user",
		Abstract:    abstract,
		FullText:    fullText,
	}
	if err := s.paperRepo.Create(paper); err != nil {
		return nil, err
	}
	metrics.PapersImported.Inc()
	return paper, nil
}

func (s *PaperService) ListByWorkspace(userID, workspaceID uint) ([]model.Paper, error) {
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
	return s.paperRepo.ListByWorkspaceID(workspaceID)
}

// Delete removes one paper. Papers in someone else's workspace read as
// absent, never as forbidden.
func (s *PaperService) Delete(userID, paperID uint) error {
	if userID == 0 || paperID == 0 {
		return ErrInvalidInput
	}
	paper, err := s.paperRepo.GetByID(paperID)
	if err != nil {
		return err
	}
	if paper == nil {
		return ErrPaperNotFound
	}
	workspace, err := s.workspaceRepo.GetByIDAndUserID(paper.WorkspaceID, userID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrPaperNotFound
	}
	return s.paperRepo.DeleteByID(paperID)
}

// archivePDF stores the raw PDF when an archive is configured. Failures are
// logged and swallowed.
func (s *PaperService) archivePDF(ctx context.Context, workspaceID uint, title string, data []byte) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("papers/%d/%d-%s.pdf", workspaceID, time.Now().Unix(), slugify(title))
	if _, err := s.archive.Upload(ctx, key, data); err != nil {
		s.logger.Warn("pdf archive upload failed", zap.String("key", key), zap.Error(err))
	}
}

func slugify(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('-')
		}
		if sb.Len() >= 64 {
			break
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "paper"
	}
	return slug
}
