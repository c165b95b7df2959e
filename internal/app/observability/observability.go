package observability

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type key struct {
	Method string
	Path   string
	Status int
}

type stat struct {
	Count     int64
	LatencyMS float64
}

// CountsFunc reports stored entities per kind.
type CountsFunc func() map[string]int

type Collector struct {
	db     *sql.DB
	counts CountsFunc
	logger *log.Logger

	mu           sync.RWMutex
	requestStats map[key]stat
	startedAt    time.Time
}

// NewCollector builds a collector. db is the audit database and may be nil.
func NewCollector(db *sql.DB, counts CountsFunc) *Collector {
	return &Collector{
		db:           db,
		counts:       counts,
		logger:       log.Default(),
		requestStats: make(map[key]stat),
		startedAt:    time.Now(),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		latencyMS := float64(time.Since(start).Microseconds()) / 1000.0
		path := normalizedPath(r.URL.Path)

		c.mu.Lock()
		k := key{Method: r.Method, Path: path, Status: rec.status}
		s := c.requestStats[k]
		s.Count++
		s.LatencyMS += latencyMS
		c.requestStats[k] = s
		c.mu.Unlock()

		entry := map[string]any{
			"request_id":        middleware.GetReqID(r.Context()),
			"candidate_test_id": extractCandidateTestID(r.URL.Path),
			"method":            r.Method,
			"path":              path,
			"status":            rec.status,
			"latency_ms":        latencyMS,
			"remote_ip":         strings.TrimSpace(r.RemoteAddr),
		}
		b, _ := json.Marshal(entry)
		c.logger.Printf("%s", string(b))
	})
}

func (c *Collector) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	statsCopy := make(map[key]stat, len(c.requestStats))
	for k, v := range c.requestStats {
		statsCopy[k] = v
	}
	startedAt := c.startedAt
	c.mu.RUnlock()

	keys := make([]key, 0, len(statsCopy))
	for k := range statsCopy {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Method != keys[j].Method {
			return keys[i].Method < keys[j].Method
		}
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Status < keys[j].Status
	})

	var sb strings.Builder
	sb.WriteString("# mcqbank observability metrics\n")
	sb.WriteString("# TYPE mcqbank_uptime_seconds gauge\n")
	sb.WriteString(fmt.Sprintf("mcqbank_uptime_seconds %.0f\n", time.Since(startedAt).Seconds()))

	sb.WriteString("# TYPE mcqbank_http_requests_total counter\n")
	sb.WriteString("# TYPE mcqbank_http_request_latency_ms_sum counter\n")
	sb.WriteString("# TYPE mcqbank_http_request_latency_ms_avg gauge\n")
	for _, k := range keys {
		s := statsCopy[k]
		labels := fmt.Sprintf("method=\"%s\",path=\"%s\",status=\"%d\"", k.Method, k.Path, k.Status)
		sb.WriteString(fmt.Sprintf("mcqbank_http_requests_total{%s} %d\n", labels, s.Count))
		sb.WriteString(fmt.Sprintf("mcqbank_http_request_latency_ms_sum{%s} %.3f\n", labels, s.LatencyMS))
		avg := 0.0
		if s.Count > 0 {
			avg = s.LatencyMS / float64(s.Count)
		}
		sb.WriteString(fmt.Sprintf("mcqbank_http_request_latency_ms_avg{%s} %.3f\n", labels, avg))
	}

	if c.counts != nil {
		counts := c.counts()
		kinds := make([]string, 0, len(counts))
		for kind := range counts {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		sb.WriteString("# TYPE mcqbank_entities gauge\n")
		for _, kind := range kinds {
			sb.WriteString(fmt.Sprintf("mcqbank_entities{kind=\"%s\"} %d\n", kind, counts[kind]))
		}
	}

	if c.db != nil {
		dbs := c.db.Stats()
		sb.WriteString("# TYPE mcqbank_audit_db_open_connections gauge\n")
		sb.WriteString(fmt.Sprintf("mcqbank_audit_db_open_connections %d\n", dbs.OpenConnections))
		sb.WriteString("# TYPE mcqbank_audit_db_in_use_connections gauge\n")
		sb.WriteString(fmt.Sprintf("mcqbank_audit_db_in_use_connections %d\n", dbs.InUse))
		sb.WriteString("# TYPE mcqbank_audit_db_wait_count counter\n")
		sb.WriteString(fmt.Sprintf("mcqbank_audit_db_wait_count %d\n", dbs.WaitCount))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

func normalizedPath(path string) string {
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

// extractCandidateTestID returns the id following a candidatetest(s) segment,
// or -1 when the path does not address a candidate test. 0 is a valid id.
func extractCandidateTestID(path string) int64 {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "candidatetests" || parts[i] == "candidatetest" {
			if id, err := strconv.ParseInt(parts[i+1], 10, 64); err == nil {
				return id
			}
		}
	}
	return -1
}
