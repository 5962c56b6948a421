package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Sumatoshi-tech/rectsweep/internal/cache"
	"github.com/Sumatoshi-tech/rectsweep/internal/observability"
	"github.com/Sumatoshi-tech/rectsweep/pkg/coverage"
	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
	"github.com/Sumatoshi-tech/rectsweep/pkg/sweep"
)

const (
	opDecompose = "decompose"
	opVisible   = "visible"

	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"

	sourceAPI = "api"
)

var (
	errTooManyObstructions = errors.New("too many obstructions")
	errTooManyLayers       = errors.New("too many layers")
	errNoLayers            = errors.New("scene has no layers")
	errBodyTooLarge        = errors.New("request body too large")
)

// DecomposeResponse is the body of a successful POST /v1/decompose.
type DecomposeResponse struct {
	RequestID string           `json:"request_id"`
	Rects     []geom.Rect      `json:"rects"`
	Stats     sweep.Stats      `json:"stats"`
	Coverage  *coverage.Report `json:"coverage,omitempty"`
}

// VisibleResponse is the body of a successful POST /v1/visible.
type VisibleResponse struct {
	RequestID string          `json:"request_id"`
	Layers    []scene.Visible `json:"layers"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// apiHandler serves one request and returns the status it wrote.
type apiHandler func(rw http.ResponseWriter, hr *http.Request, requestID string) int

func (s *Server) instrument(op string, next apiHandler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		requestID := requestIDFrom(hr)
		ctx := observability.WithRequestID(hr.Context(), requestID)
		start := time.Now()
		end := s.opts.RED.Begin(ctx, op)

		rw.Header().Set(HeaderRequestID, requestID)

		status := next(rw, hr.WithContext(ctx), requestID)
		end(status)

		s.opts.Logger.DebugContext(ctx, "request served",
			"op", op, "status", status, "duration", time.Since(start))
	})
}

// requestIDFrom reuses a well-formed incoming id and otherwise mints one.
func requestIDFrom(hr *http.Request) string {
	if incoming := hr.Header.Get(HeaderRequestID); incoming != "" {
		if id, err := uuid.Parse(incoming); err == nil {
			return id.String()
		}
	}

	return uuid.NewString()
}

func (s *Server) handleDecompose(rw http.ResponseWriter, hr *http.Request, requestID string) int {
	ctx := hr.Context()

	sc, status, err := s.readScene(rw, hr)
	if err != nil {
		return s.fail(ctx, rw, requestID, status, err)
	}

	if sc.Base == nil {
		return s.fail(ctx, rw, requestID, http.StatusBadRequest, scene.ErrNoBase)
	}

	if n := len(sc.Obstructions); n > s.opts.Config.MaxObstructions {
		return s.fail(ctx, rw, requestID, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: %d > %d", errTooManyObstructions, n, s.opts.Config.MaxObstructions))
	}

	dec, err := s.decompose(ctx, *sc.Base, sc.ObstructionRects())
	if err != nil {
		return s.fail(ctx, rw, requestID, http.StatusInternalServerError, err)
	}

	resp := DecomposeResponse{RequestID: requestID, Rects: dec.result.Rects, Stats: dec.result.Stats, Coverage: dec.coverage}

	if resp.Rects == nil {
		resp.Rects = []geom.Rect{}
	}

	writeJSON(ctx, rw, http.StatusOK, resp)

	return http.StatusOK
}

// decomposition is a cached sweep outcome.
type decomposition struct {
	result   sweep.Result
	coverage *coverage.Report
}

// decompose runs the sweep, or returns the memoized outcome of an identical
// earlier request. Only successful outcomes are cached.
func (s *Server) decompose(ctx context.Context, base geom.Rect, obstructions []geom.Rect) (decomposition, error) {
	key := cache.KeyOf(base, obstructions)

	if s.opts.Config.CacheEntries > 0 {
		dec, ok := s.results.Get(key)
		s.opts.Sweep.RecordCacheLookup(ctx, ok)

		if ok {
			return dec, nil
		}
	}

	start := time.Now()
	dec := decomposition{result: sweep.Analyze(base, obstructions)}
	s.opts.Sweep.RecordDecomposition(ctx, sourceAPI, len(obstructions), len(dec.result.Rects), time.Since(start))

	if s.opts.Config.Verify {
		report, err := s.verify(ctx, base, obstructions, dec.result.Rects)
		if err != nil {
			return decomposition{}, err
		}

		dec.coverage = report
	}

	s.results.Put(key, dec)

	return dec, nil
}

// verify checks rects against the scene. Outputs above server.max_verify_rects
// are not checked and yield a nil report.
func (s *Server) verify(ctx context.Context, base geom.Rect, obstructions, rects []geom.Rect) (*coverage.Report, error) {
	if n := len(rects); n > s.opts.Config.MaxVerifyRects {
		s.opts.Logger.DebugContext(ctx, "verification skipped",
			"rects", n, "max_verify_rects", s.opts.Config.MaxVerifyRects)

		return nil, nil
	}

	report, err := coverage.Check(base, obstructions, rects)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *Server) handleVisible(rw http.ResponseWriter, hr *http.Request, requestID string) int {
	ctx := hr.Context()

	sc, status, err := s.readScene(rw, hr)
	if err != nil {
		return s.fail(ctx, rw, requestID, status, err)
	}

	if len(sc.Layers) == 0 {
		return s.fail(ctx, rw, requestID, http.StatusBadRequest, errNoLayers)
	}

	if n := len(sc.Layers); n > s.opts.Config.MaxObstructions {
		return s.fail(ctx, rw, requestID, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: %d > %d", errTooManyLayers, n, s.opts.Config.MaxObstructions))
	}

	start := time.Now()

	visible, err := sc.VisibleRegions(ctx, s.opts.Workers)
	if err != nil {
		return s.fail(ctx, rw, requestID, http.StatusServiceUnavailable, err)
	}

	perLayer := time.Since(start) / time.Duration(len(visible))

	for i, v := range visible {
		s.opts.Sweep.RecordDecomposition(ctx, sourceAPI, len(sc.Layers)-i-1, len(v.Rects), perLayer)
	}

	writeJSON(ctx, rw, http.StatusOK, VisibleResponse{RequestID: requestID, Layers: visible})

	return http.StatusOK
}

// readScene decodes the JSON body. On failure it returns the status to answer with.
func (s *Server) readScene(rw http.ResponseWriter, hr *http.Request) (*scene.Scene, int, error) {
	body := http.MaxBytesReader(rw, hr.Body, s.opts.Config.MaxBodyBytes())

	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("%w: limit %d bytes", errBodyTooLarge, maxErr.Limit)
		}

		return nil, http.StatusBadRequest, fmt.Errorf("read body: %w", err)
	}

	sc, err := scene.Parse(data, scene.FormatJSON)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	return sc, http.StatusOK, nil
}

func (s *Server) fail(ctx context.Context, rw http.ResponseWriter, requestID string, status int, err error) int {
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	s.opts.Logger.Log(ctx, level, "request rejected", "status", status, "error", err)

	writeJSON(ctx, rw, status, ErrorResponse{RequestID: requestID, Error: err.Error()})

	return status
}

func writeJSON(ctx context.Context, rw http.ResponseWriter, status int, value any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	err := json.NewEncoder(rw).Encode(value)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}
