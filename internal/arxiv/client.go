package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the arXiv query API (an Atom feed) and downloads PDFs.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	pdfClient  *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, maxResults int, logger *zap.Logger) *Client {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pdfClient:  &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Search queries arXiv and maps each feed entry into a PaperMeta.
// Entries that cannot be mapped are skipped, not fatal.
func (c *Client) Search(ctx context.Context, query string) ([]PaperMeta, error) {
	searchURL := fmt.Sprintf("%s/query?search_query=all:%s&max_results=%d",
		c.baseURL, url.QueryEscape(query), c.maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build arxiv request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv response status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read arxiv response failed: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("parse arxiv feed failed: %w", err)
	}

	papers := make([]PaperMeta, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, mapEntry(entry))
	}
	c.logger.Info("arxiv search finished",
		zap.String("query", query),
		zap.Int("results", len(papers)),
	)
	return papers, nil
}

// DownloadPDF fetches the PDF behind an arXiv abstract URL (or any direct
// PDF URL) and returns the raw bytes.
func (c *Client) DownloadPDF(ctx context.Context, pageURL string) ([]byte, error) {
	pdfURL := PDFURL(pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build pdf request failed: %w", err)
	}

	resp, err := c.pdfClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdf download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf download status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// PDFURL rewrites an arXiv abstract URL into its PDF URL,
// e.g. https://arxiv.org/abs/2301.12345 -> https://arxiv.org/pdf/2301.12345.pdf.
// Non-arXiv URLs are returned unchanged.
func PDFURL(pageURL string) string {
	if strings.Contains(pageURL, "arxiv.org/abs/") {
		return strings.Replace(pageURL, "/abs/", "/pdf/", 1) + ".pdf"
	}
	return pageURL
}

func mapEntry(entry atomEntry) PaperMeta {
	title := collapseWhitespace(entry.Title)
	if title == "" {
		title = "No title"
	}

	names := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	authors := strings.Join(names, ", ")
	if authors == "" {
		authors = "Unknown"
	}

	abstract := collapseWhitespace(entry.Summary)
	if abstract == "" {
		abstract = "No abstract"
	}

	date := "Unknown"
	if len(entry.Published) >= 10 {
		date = entry.Published[:10]
	}

	return PaperMeta{
		Title:    title,
		Authors:  authors,
		Abstract: abstract,
		Date:     date,
		URL:      strings.TrimSpace(entry.ID),
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
