// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/presto/internal/metrics"
	"github.com/tomtom215/presto/internal/recommend/similarity"
	"github.com/tomtom215/presto/internal/validation"
)

// Engine runs the recommendation pipeline against a Store.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	config *Config
	store  Store
	logger zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if store == nil {
		return nil, ErrNoStore
	}

	return &Engine{
		config: cfg.Clone(),
		store:  store,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// NewRequest returns a request for term in category carrying the
// configured defaults.
func (e *Engine) NewRequest(category, term string) Request {
	d := e.config.Defaults
	return Request{
		Category:         category,
		SearchTerm:       term,
		SearchField:      SearchTitle,
		ExactMatch:       d.ExactMatch,
		FilterUnhelpful:  d.FilterUnhelpful,
		ReviewerPoolSize: d.ReviewerPoolSize,
		ProductPoolSize:  d.ProductPoolSize,
		MissingRating:    d.MissingRating,
		Limit:            d.Limit,
		RemoveDuplicates: d.RemoveDuplicates,
	}
}

// Recommend resolves the request's search term to a product and ranks the
// products most similar to it by the ratings of the reviewers they share.
//
// A search without matches is not an error: the result carries empty
// collections and a nil Product. Oversized rating matrices fail with
// ErrIntractableComputation before any matrix is allocated.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, err := e.recommend(ctx, req)
	if err != nil {
		metrics.RecordRecommendation(OutcomeError)
		e.logger.Error().Err(err).
			Str("request_id", req.RequestID).
			Str("category", req.Category).
			Msg("recommendation failed")
		return nil, err
	}

	res.Timings.Total = time.Since(start)
	metrics.RecordRecommendation(res.Outcome)

	e.logger.Info().
		Str("request_id", req.RequestID).
		Str("category", req.Category).
		Str("outcome", res.Outcome).
		Int("matches", len(res.Matches)).
		Int("pool_reviews", res.Summary.Reviews).
		Int("recommendations", len(res.Recommendations)).
		Dur("duration", res.Timings.Total).
		Msg("recommendation complete")

	return res, nil
}

func (e *Engine) recommend(ctx context.Context, req Request) (*Result, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, verr)
	}
	req = e.withDefaults(req)

	if e.config.Limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Limits.Timeout)
		defer cancel()
	}

	res := emptyResult()

	// Resolve
	stage := time.Now()
	matches, err := e.FindProducts(ctx, ProductQuery{
		Category:         req.Category,
		Term:             req.SearchTerm,
		Field:            req.SearchField,
		Exact:            req.ExactMatch,
		RemoveDuplicates: req.RemoveDuplicates,
	})
	if err != nil {
		return nil, err
	}
	res.Timings.Resolve = e.observe("resolve", stage)
	res.Matches = matches

	if len(matches) == 0 {
		res.Outcome = OutcomeNoMatch
		return res, nil
	}
	target := matches[0]
	res.Product = &target

	// Seed
	stage = time.Now()
	seed, err := e.store.ReviewsForProducts(ctx, []string{target.ID})
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	if req.FilterUnhelpful {
		seed = FilterHelpful(seed)
	}
	if seed == nil {
		seed = []Review{}
	}
	res.Reviews = seed
	res.Timings.Seed = e.observe("seed", stage)

	// Expand
	stage = time.Now()
	// Reviewers are ranked on their unfiltered review counts; the
	// helpfulness filter only applies to the bounded pool.
	pool, err := e.RelatedReviews(ctx, seed, ExpandOptions{
		MaxReviewers: req.ReviewerPoolSize,
		MaxProducts:  req.ProductPoolSize,
	})
	if err != nil {
		return nil, err
	}
	if req.FilterUnhelpful {
		pool = BoundPool(FilterHelpful(pool), req.ReviewerPoolSize, req.ProductPoolSize)
	}
	res.RelatedReviews = pool
	res.Summary = Summarize(pool)
	res.Timings.Expand = e.observe("expand", stage)
	metrics.ObserveReviewPool(res.Summary.Reviews, res.Summary.Users, res.Summary.Products)

	if len(pool) == 0 {
		e.logger.Warn().
			Str("request_id", req.RequestID).
			Str("product_id", target.ID).
			Msg("no related reviews, nothing to compare against")
		res.Outcome = OutcomeEmptyPool
		return res, nil
	}

	// Similarity
	stage = time.Now()
	scores, err := e.score(ctx, target.ID, pool, req.MissingRating)
	if errors.Is(err, similarity.ErrUnknownProduct) {
		e.logger.Warn().
			Str("request_id", req.RequestID).
			Str("product_id", target.ID).
			Int("pool_products", res.Summary.Products).
			Msg("searched product fell outside the product pool")
		res.Outcome = OutcomeTargetPruned
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.Timings.Similarity = e.observe("similarity", stage)

	// Details
	stage = time.Now()
	recs, err := e.present(ctx, target, scores, req)
	if err != nil {
		return nil, err
	}
	res.Recommendations = recs
	res.Timings.Details = e.observe("details", stage)

	res.Outcome = OutcomeOK
	return res, nil
}

// withDefaults fills zero pool sizes and limit from the configuration and
// caps the limit.
func (e *Engine) withDefaults(req Request) Request {
	d := e.config.Defaults
	if req.SearchField == "" {
		req.SearchField = SearchTitle
	}
	if req.ReviewerPoolSize == 0 {
		req.ReviewerPoolSize = d.ReviewerPoolSize
	}
	if req.ProductPoolSize == 0 {
		req.ProductPoolSize = d.ProductPoolSize
	}
	if req.Limit == 0 {
		req.Limit = d.Limit
	}
	if maxLimit := e.config.Limits.MaxLimit; maxLimit > 0 && req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	return req
}

// score builds the rating matrix for pool and ranks every other product
// by cosine similarity to targetID.
func (e *Engine) score(ctx context.Context, targetID string, pool []Review, fill float64) ([]similarity.Score, error) {
	ratings := ratingsOf(pool)

	users, products := similarity.Shape(ratings)
	warn, err := similarity.CheckSize(users, products, e.config.SizeLimit())
	metrics.ObserveMatrix(users, products, warn)
	if err != nil {
		return nil, err
	}
	if warn {
		e.logger.Warn().
			Int("users", users).
			Int("products", products).
			Int64("warn_cells", e.config.Limits.WarnCells).
			Msg("large rating matrix, similarity may be slow")
	}

	m, err := similarity.NewMatrix(ratings, fill, e.config.SizeLimit())
	if err != nil {
		return nil, fmt.Errorf("build rating matrix: %w", err)
	}

	scores, err := m.SimilarTo(ctx, targetID, e.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}
	return scores, nil
}

// present joins scores with product details, collapses duplicate editions
// and applies the limit. Editions of the searched product are never
// recommended.
func (e *Engine) present(ctx context.Context, target ProductMatch, scores []similarity.Score, req Request) ([]Recommendation, error) {
	if len(scores) == 0 {
		return []Recommendation{}, nil
	}

	ids := make([]string, len(scores))
	for i, s := range scores {
		ids[i] = s.ProductID
	}

	products, err := e.store.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get product details: %w", err)
	}
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	seen := map[EditionKey]struct{}{target.Edition(): {}}
	recs := make([]Recommendation, 0, min(len(scores), req.Limit))
	for _, s := range scores {
		p, ok := byID[s.ProductID]
		if !ok {
			continue
		}
		if req.RemoveDuplicates {
			key := p.Edition()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		recs = append(recs, Recommendation{Product: p, Score: s.Similarity})
		if req.Limit > 0 && len(recs) == req.Limit {
			break
		}
	}
	return recs, nil
}

func (e *Engine) observe(stage string, start time.Time) time.Duration {
	d := time.Since(start)
	metrics.RecordRecommendStage(stage, d)
	return d
}
