package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PapersImported = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papers_imported_total",
		Help: "Total number of papers imported or uploaded into workspaces.",
	})
	ChatRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_requests_total",
		Help: "Total number of chat requests answered.",
	})
	RetrievalFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retrieval_fallbacks_total",
		Help: "Chat requests where no paper cleared the similarity threshold.",
	})
)

func init() {
	prometheus.MustRegister(PapersImported, ChatRequests, RetrievalFallbacks)
}
