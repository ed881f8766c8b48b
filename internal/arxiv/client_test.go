package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
 You Need</title>
    <summary>  The dominant sequence transduction models
 are based on recurrent networks.  </summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Minimal Entry</title>
    <summary></summary>
    <published></published>
  </entry>
</feed>`

func TestSearch_ParsesAtomFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("search_query"); got != "all:attention mechanisms" {
			t.Errorf("unexpected search_query %q", got)
		}
		if got := r.URL.Query().Get("max_results"); got != "10" {
			t.Errorf("unexpected max_results %q", got)
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	client := NewClient(server.URL, 10, zap.NewNop())
	papers, err := client.Search(context.Background(), "attention mechanisms")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(papers))
	}

	first := papers[0]
	if first.Title != "Attention Is All You Need" {
		t.Fatalf("title not collapsed: %q", first.Title)
	}
	if first.Authors != "Ashish Vaswani, Noam Shazeer" {
		t.Fatalf("authors not joined: %q", first.Authors)
	}
	if first.Abstract != "The dominant sequence transduction models are based on recurrent networks." {
		t.Fatalf("abstract not collapsed: %q", first.Abstract)
	}
	if first.Date != "2017-06-12" {
		t.Fatalf("date not truncated: %q", first.Date)
	}
	if first.URL != "http://arxiv.org/abs/1706.03762v7" {
		t.Fatalf("unexpected url: %q", first.URL)
	}

	second := papers[1]
	if second.Authors != "Unknown" {
		t.Fatalf("missing authors must map to Unknown, got %q", second.Authors)
	}
	if second.Abstract != "No abstract" {
		t.Fatalf("missing abstract must map to placeholder, got %q", second.Abstract)
	}
	if second.Date != "Unknown" {
		t.Fatalf("missing published must map to Unknown, got %q", second.Date)
	}
}

func TestSearch_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 10, zap.NewNop())
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error on server failure, got nil")
	}
}

func TestPDFURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://arxiv.org/abs/2301.12345":  "https://arxiv.org/pdf/2301.12345.pdf",
		"http://arxiv.org/abs/1706.03762v7": "http://arxiv.org/pdf/1706.03762v7.pdf",
		"https://example.com/paper.pdf":     "https://example.com/paper.pdf",
	}
	for in, want := range cases {
		if got := PDFURL(in); got != want {
			t.Fatalf("PDFURL(%q) = %q, want %q", in, got, want)
		}
	}
}
