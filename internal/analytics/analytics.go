// Package analytics aggregates reporting views over audits and auditors.
// Everything here is derived: the package reads the stores, computes, and
// optionally caches the result in Redis for the dashboard's polling interval.
package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	auditmodels "foodaudit/internal/audit/models"
	"foodaudit/internal/audit/store"
	auditormodels "foodaudit/internal/auditor/models"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/requestcontext"
)

const cacheKey = "analytics:overview"

type AuditReader interface {
	List(ctx context.Context, filter store.Filter) ([]*auditmodels.Audit, error)
}

type AuditorReader interface {
	List(ctx context.Context) ([]*auditormodels.Auditor, error)
}

// Cache is the subset of go-redis the service needs. Nil disables caching.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CompletionSummary counts audits per lifecycle stage.
type CompletionSummary struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	CompletionRate float64        `json:"completion_rate"`
}

// TopIssue is a question ranked by how often it was answered "No".
type TopIssue struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

// AuditorPerformance summarizes one auditor's workload outcomes.
type AuditorPerformance struct {
	AuditorID string `json:"auditor_id"`
	Name      string `json:"name"`
	Assigned  int    `json:"assigned"`
	Completed int    `json:"completed"`
}

// LocationCompliance aggregates findings per location.
type LocationCompliance struct {
	Location string `json:"location"`
	Audits   int    `json:"audits"`
	Findings int    `json:"findings"`
}

// Overview is the full dashboard payload.
type Overview struct {
	Completion  CompletionSummary    `json:"completion"`
	TopIssues   []TopIssue           `json:"top_issues"`
	Auditors    []AuditorPerformance `json:"auditors"`
	Locations   []LocationCompliance `json:"locations"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Service computes analytics views. Store reads fan out concurrently; the
// computed overview is cached read-through when Redis is configured.
type Service struct {
	audits   AuditReader
	auditors AuditorReader
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func New(audits AuditReader, auditors AuditorReader, opts ...Option) *Service {
	s := &Service{
		audits:   audits,
		auditors: auditors,
		cacheTTL: time.Minute,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview returns the dashboard aggregate, served from cache when fresh.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var (
		audits   []*auditmodels.Audit
		auditors []*auditormodels.Auditor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		audits, err = s.audits.List(gctx, store.Filter{})
		return err
	})
	g.Go(func() error {
		var err error
		auditors, err = s.auditors.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load analytics inputs")
	}

	overview := &Overview{
		Completion:  completionSummary(audits),
		TopIssues:   topIssues(audits, 10),
		Auditors:    auditorPerformance(audits, auditors),
		Locations:   locationCompliance(audits),
		GeneratedAt: requestcontext.Now(ctx).UTC(),
	}
	s.toCache(ctx, overview)
	return overview, nil
}

func (s *Service) fromCache(ctx context.Context) *Overview {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "analytics cache read failed", "error", err)
		}
		return nil
	}
	var overview Overview
	if err := json.Unmarshal(raw, &overview); err != nil {
		s.logger.WarnContext(ctx, "analytics cache payload corrupt", "error", err)
		return nil
	}
	return &overview
}

func (s *Service) toCache(ctx context.Context, overview *Overview) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "analytics cache write failed", "error", err)
	}
}

func completionSummary(audits []*auditmodels.Audit) CompletionSummary {
	summary := CompletionSummary{
		Total:    len(audits),
		ByStatus: make(map[string]int),
	}
	completed := 0
	for _, audit := range audits {
		summary.ByStatus[string(audit.Status)]++
		if audit.Status == auditmodels.StatusCompleted {
			completed++
		}
	}
	if summary.Total > 0 {
		summary.CompletionRate = float64(completed) / float64(summary.Total)
	}
	return summary
}

func topIssues(audits []*auditmodels.Audit, limit int) []TopIssue {
	counts := make(map[string]int)
	for _, audit := range audits {
		for _, sec := range audit.Sections {
			for _, item := range sec.Items {
				if item.Response != nil && item.Response.IsNo() {
					counts[item.Question]++
				}
			}
		}
	}
	issues := make([]TopIssue, 0, len(counts))
	for question, count := range counts {
		issues = append(issues, TopIssue{Question: question, Count: count})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Count != issues[j].Count {
			return issues[i].Count > issues[j].Count
		}
		return issues[i].Question < issues[j].Question
	})
	if len(issues) > limit {
		issues = issues[:limit]
	}
	return issues
}

func auditorPerformance(audits []*auditmodels.Audit, auditors []*auditormodels.Auditor) []AuditorPerformance {
	completedBy := make(map[string]int)
	for _, audit := range audits {
		if audit.Status == auditmodels.StatusCompleted && audit.AuditorID != nil {
			completedBy[audit.AuditorID.String()]++
		}
	}
	out := make([]AuditorPerformance, 0, len(auditors))
	for _, auditor := range auditors {
		out = append(out, AuditorPerformance{
			AuditorID: auditor.ID.String(),
			Name:      auditor.Name,
			Assigned:  len(auditor.AssignedAudits),
			Completed: completedBy[auditor.ID.String()],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func locationCompliance(audits []*auditmodels.Audit) []LocationCompliance {
	type agg struct {
		audits   int
		findings int
	}
	byLocation := make(map[string]*agg)
	for _, audit := range audits {
		if audit.Location == "" {
			continue
		}
		entry, ok := byLocation[audit.Location]
		if !ok {
			entry = &agg{}
			byLocation[audit.Location] = entry
		}
		entry.audits++
		for _, sec := range audit.Sections {
			for _, item := range sec.Items {
				if item.Response != nil && item.Response.IsNo() {
					entry.findings++
				}
			}
		}
	}
	out := make([]LocationCompliance, 0, len(byLocation))
	for location, entry := range byLocation {
		out = append(out, LocationCompliance{Location: location, Audits: entry.audits, Findings: entry.findings})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}
