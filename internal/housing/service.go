package housing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/metrics"
	"github.com/roach88/housingjson/internal/queryir"
	"github.com/roach88/housingjson/internal/querypath"
	"github.com/roach88/housingjson/internal/querysql"
	"github.com/roach88/housingjson/internal/reshape"
	"github.com/roach88/housingjson/internal/store"
)

// ErrEmptyDocument is returned when a document to store is not a non-empty
// JSON object.
var ErrEmptyDocument = errors.New("housing data is required")

// Observer receives one observation per projection query.
type Observer interface {
	ObserveQuery(strategy, outcome string, elapsed time.Duration, rows int)
}

type nopObserver struct{}

func (nopObserver) ObserveQuery(string, string, time.Duration, int) {}

// Response is the envelope returned for projection queries and listings.
type Response struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    []jsonval.Value `json:"data"`
}

// Service runs projection queries and record operations against a Store.
// Service is safe for concurrent use.
type Service struct {
	store     *store.Store
	compilers map[string]*querysql.Compiler
	observer  Observer
}

// Option configures a Service.
type Option func(*Service)

// WithObserver reports query observations to o.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithPrometheus reports query observations to the metrics package.
func WithPrometheus() Option {
	return WithObserver(metrics.Prometheus{})
}

// NewService creates a Service over st. Paths are normalized with normalizer
// for both projection strategies.
func NewService(st *store.Store, normalizer querypath.Normalizer, opts ...Option) *Service {
	s := &Service{
		store:    st,
		observer: nopObserver{},
		compilers: map[string]*querysql.Compiler{
			querysql.NativePathProjection{}.Name(): querysql.NewCompiler(querysql.NativePathProjection{}, normalizer),
			querysql.FunctionProjection{}.Name():   querysql.NewCompiler(querysql.FunctionProjection{}, normalizer),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compile parses req and compiles it for strategy without executing it.
func (s *Service) Compile(strategy querysql.Strategy, req queryir.Request) (querysql.CompiledQuery, queryir.Query, error) {
	c, err := s.compiler(strategy)
	if err != nil {
		return querysql.CompiledQuery{}, queryir.Query{}, err
	}

	q, err := queryir.Parse(req)
	if err != nil {
		return querysql.CompiledQuery{}, queryir.Query{}, err
	}

	cq, err := c.Compile(q)
	if err != nil {
		return querysql.CompiledQuery{}, queryir.Query{}, err
	}
	return cq, q, nil
}

// Query runs a projection query and returns the reshaped rows.
//
// Validation failures are returned as *queryir.ValidationError before the
// store is touched. Store failures are returned wrapped.
func (s *Service) Query(ctx context.Context, strategy querysql.Strategy, req queryir.Request) (Response, error) {
	start := time.Now()
	name := ""
	if strategy != nil {
		name = strategy.Name()
	}

	cq, q, err := s.Compile(strategy, req)
	if err != nil {
		s.observer.ObserveQuery(name, metrics.OutcomeInvalid, time.Since(start), 0)
		return Response{}, err
	}

	slog.Debug("executing projection query",
		"strategy", name,
		"sql", cq.SQL,
		"binds", len(cq.Binds),
	)

	res, err := s.store.Execute(ctx, cq.SQL, cq.Binds...)
	if err != nil {
		s.observer.ObserveQuery(name, metrics.OutcomeError, time.Since(start), 0)
		return Response{}, fmt.Errorf("query housing records: %w", err)
	}

	data := reshape.Rows(res.Rows, q.Columns)
	s.observer.ObserveQuery(name, metrics.OutcomeOK, time.Since(start), len(data))

	return Response{Success: true, Count: len(data), Data: data}, nil
}

func (s *Service) compiler(strategy querysql.Strategy) (*querysql.Compiler, error) {
	if strategy == nil {
		strategy = querysql.NativePathProjection{}
	}
	c, ok := s.compilers[strategy.Name()]
	if !ok {
		return nil, fmt.Errorf("no compiler for strategy %q", strategy.Name())
	}
	return c, nil
}
