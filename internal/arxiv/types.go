package arxiv

// Atom feed shapes returned by the arXiv query API.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// PaperMeta is a search hit mapped out of the feed. Nothing here is
// persisted; importing a hit into a workspace is a separate call.
type PaperMeta struct {
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	Date     string `json:"date"`
	URL      string `json:"url"`
}
