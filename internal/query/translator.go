// Package query translates search parameters into event store reads.
package query

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Wendyzhou/eventkit/internal/config"
	"github.com/Wendyzhou/eventkit/internal/decode"
	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/repository"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

// ErrQuery marks an invalid mode or parameter
var ErrQuery = errors.New("invalid query")

// Query modes
const (
	ModeRecent     = "recent"
	ModeTotal      = "total"
	ModeWildcard   = "wildcard"
	ModeEmailStats = "email_stats"
	ModeDetailed   = "detailed"
)

// Parameter names
const (
	ParamQuery          = "query"
	ParamLimit          = "limit"
	ParamHours          = "hours"
	ParamText           = "text"
	ParamEmail          = "email"
	ParamEvent          = "event"
	ParamMatch          = "match"
	ParamDateStart      = "dateStart"
	ParamDateEnd        = "dateEnd"
	ParamResultsPerPage = "resultsPerPage"
	ParamCSV            = "csv"
)

const matchAll = "all"

// reserved keys never become detailed filters
var reserved = map[string]bool{
	ParamMatch:          true,
	ParamQuery:          true,
	ParamResultsPerPage: true,
	ParamCSV:            true,
	ParamDateStart:      true,
	ParamDateEnd:        true,
}

// Kind tells which field of a Result is populated
type Kind int

const (
	KindRows Kind = iota
	KindCount
	KindStats
)

// Result is the outcome of one query
type Result struct {
	Mode  string
	Kind  Kind
	Rows  []domain.Row
	Count int64
	Stats *EmailStats
}

// Body returns the JSON payload of the result; rows are decoded
func (r Result) Body() any {
	switch r.Kind {
	case KindCount:
		return r.Count
	case KindStats:
		return r.Stats
	}
	return decode.Rows(r.Rows)
}

// Translator runs parameter maps against an event repository
type Translator struct {
	repo repository.EventRepository
	cfg  config.Query
	now  func() time.Time
	log  *zap.Logger
}

// Option configures a Translator
type Option func(*Translator)

// WithClock overrides the clock used by the total mode
func WithClock(now func() time.Time) Option {
	return func(t *Translator) {
		t.now = now
	}
}

// NewTranslator creates a new query translator
func NewTranslator(repo repository.EventRepository, cfg config.Query, log *zap.Logger, opts ...Option) *Translator {
	t := &Translator{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
		log:  log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run executes the query named by the "query" parameter. Invalid parameters
// and store failures are logged and produce the zero result of the mode.
func (t *Translator) Run(ctx context.Context, p Params) Result {
	mode, _ := p.Get(ParamQuery)

	var (
		res Result
		err error
	)
	switch mode {
	case ModeRecent:
		res, err = t.recent(ctx, p)
	case ModeTotal:
		res, err = t.total(ctx, p)
	case ModeWildcard:
		res, err = t.wildcard(ctx, p)
	case ModeEmailStats:
		res, err = t.emailStats(ctx, p)
	case ModeDetailed:
		res, err = t.detailed(ctx, p)
	default:
		err = fmt.Errorf("%w: unknown mode %q", ErrQuery, mode)
	}

	if err != nil {
		if errors.Is(err, ErrQuery) {
			t.log.Warn("Rejected query", zap.String("mode", mode), zap.Error(err))
		} else {
			t.log.Error("Query failed", zap.String("mode", mode), zap.Error(err))
		}
		return t.zero(mode, p)
	}

	res.Mode = mode
	return res
}

func (t *Translator) zero(mode string, p Params) Result {
	switch mode {
	case ModeTotal:
		return Result{Mode: mode, Kind: KindCount}
	case ModeEmailStats:
		labels := t.labels(p)
		counts := make([]LabelCount, len(labels))
		for i, l := range labels {
			counts[i] = LabelCount{Label: l}
		}
		return Result{Mode: mode, Kind: KindStats, Stats: newEmailStats(counts)}
	}
	return Result{Mode: mode, Kind: KindRows, Rows: []domain.Row{}}
}

func (t *Translator) recent(ctx context.Context, p Params) (Result, error) {
	limit := t.cfg.DefaultLimit
	if s, ok := p.Get(ParamLimit); ok {
		n, err := positiveInt(ParamLimit, s)
		if err != nil {
			return Result{}, err
		}
		limit = n
	}

	return t.rows(ctx, nil, t.capLimit(limit))
}

func (t *Translator) total(ctx context.Context, p Params) (Result, error) {
	hours := t.cfg.DefaultHours
	if s, ok := p.Get(ParamHours); ok {
		h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || h < 0 || math.IsInf(h, 0) || math.IsNaN(h) {
			return Result{}, fmt.Errorf("%w: hours must be a non-negative number, got %q", ErrQuery, s)
		}
		hours = h
	}

	cutoff := t.now().Unix() - int64(math.Round(hours*3600))
	n, err := t.repo.Count(ctx, repository.Compare{
		Column: schema.ColEventPostTimestamp,
		Op:     repository.OpGt,
		Value:  cutoff,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to count events: %w", err)
	}

	return Result{Kind: KindCount, Count: n}, nil
}

func (t *Translator) wildcard(ctx context.Context, p Params) (Result, error) {
	text, ok := p.Get(ParamText)
	if !ok {
		return Result{}, fmt.Errorf("%w: text is required", ErrQuery)
	}

	return t.rows(ctx, repository.Contains{Column: schema.ColRaw, Text: text}, 0)
}

func (t *Translator) emailStats(ctx context.Context, p Params) (Result, error) {
	email, ok := p.Get(ParamEmail)
	if !ok {
		return Result{}, fmt.Errorf("%w: email is required", ErrQuery)
	}

	labels := t.labels(p)
	counts := make([]LabelCount, 0, len(labels))
	for _, label := range labels {
		n, err := t.repo.Count(ctx, repository.And(
			repository.Compare{Column: schema.ColEmail, Op: repository.OpEq, Value: email},
			repository.Compare{Column: schema.ColEvent, Op: repository.OpEq, Value: label},
		))
		if err != nil {
			return Result{}, fmt.Errorf("failed to count %s events: %w", label, err)
		}
		counts = append(counts, LabelCount{Label: label, Count: n})
	}

	return Result{Kind: KindStats, Stats: newEmailStats(counts)}, nil
}

// labels returns the caller's event labels, or the configured set
func (t *Translator) labels(p Params) []string {
	v, ok := p[ParamEvent]
	if !ok {
		return t.cfg.StatsLabels
	}

	var labels []string
	seen := make(map[string]bool)
	for _, item := range v.Items {
		for _, l := range strings.Split(item, ",") {
			l = strings.TrimSpace(l)
			if l != "" && !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	if len(labels) == 0 {
		return t.cfg.StatsLabels
	}
	return labels
}

func (t *Translator) detailed(ctx context.Context, p Params) (Result, error) {
	match, ok := p.Get(ParamMatch)
	if !ok {
		return Result{}, fmt.Errorf("%w: match is required", ErrQuery)
	}

	var filters []repository.Predicate
	for key, v := range p {
		if reserved[key] {
			continue
		}

		name := schema.Normalize(key)
		if !schema.IsKnownField(name) {
			t.log.Debug("Skipping unknown filter field", zap.String("field", key))
			continue
		}

		if !v.List {
			if len(v.Items) > 0 {
				filters = append(filters, repository.Contains{Column: name, Text: v.Items[0]})
			}
			continue
		}

		alternatives := make([]repository.Predicate, 0, len(v.Items))
		for _, item := range v.Items {
			alternatives = append(alternatives, repository.Contains{Column: name, Text: item})
		}
		if len(alternatives) > 0 {
			filters = append(filters, repository.Or(alternatives...))
		}
	}

	bounds, err := dateBounds(p)
	if err != nil {
		return Result{}, err
	}

	if len(filters) == 0 && len(bounds) == 0 {
		return Result{}, fmt.Errorf("%w: no usable filter", ErrQuery)
	}

	sortPredicates(filters)

	conditions := bounds
	if len(filters) > 0 {
		combined := repository.Or(filters...)
		if match == matchAll {
			combined = repository.And(filters...)
		}
		conditions = append([]repository.Predicate{combined}, bounds...)
	}

	// every match is returned unless the caller pages
	limit := 0
	if s, ok := p.Get(ParamResultsPerPage); ok {
		n, err := positiveInt(ParamResultsPerPage, s)
		if err != nil {
			return Result{}, err
		}
		limit = n
	}

	return t.rows(ctx, repository.And(conditions...), limit)
}

func (t *Translator) rows(ctx context.Context, where repository.Predicate, limit int) (Result, error) {
	rows, err := t.repo.Query(ctx, repository.Query{
		Where:   where,
		OrderBy: &repository.OrderBy{Column: schema.ColTimestamp, Desc: true},
		Limit:   limit,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to query events: %w", err)
	}

	return Result{Kind: KindRows, Rows: rows}, nil
}

func (t *Translator) capLimit(n int) int {
	if n > t.cfg.MaxLimit {
		return t.cfg.MaxLimit
	}
	return n
}

func dateBounds(p Params) ([]repository.Predicate, error) {
	var bounds []repository.Predicate

	if s, ok := p.Get(ParamDateStart); ok {
		ts, err := parseDate(s, false)
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, repository.Compare{Column: schema.ColTimestamp, Op: repository.OpGte, Value: ts})
	}

	if s, ok := p.Get(ParamDateEnd); ok {
		ts, err := parseDate(s, true)
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, repository.Compare{Column: schema.ColTimestamp, Op: repository.OpLte, Value: ts})
	}

	return bounds, nil
}

// parseDate accepts unix seconds or a YYYY-MM-DD day in UTC. A day used as
// an end bound covers the whole day.
func parseDate(s string, end bool) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	day, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid date %q", ErrQuery, s)
	}
	if end {
		return day.Add(24*time.Hour).Unix() - 1, nil
	}
	return day.Unix(), nil
}

// sortPredicates orders filters by column so equal parameters render equal statements
func sortPredicates(filters []repository.Predicate) {
	column := func(p repository.Predicate) string {
		switch t := p.(type) {
		case repository.Contains:
			return t.Column
		case repository.Group:
			if len(t.Items) > 0 {
				if c, ok := t.Items[0].(repository.Contains); ok {
					return c.Column
				}
			}
		}
		return ""
	}
	sort.SliceStable(filters, func(i, j int) bool {
		return column(filters[i]) < column(filters[j])
	})
}

func positiveInt(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrQuery, name, s)
	}
	return n, nil
}
