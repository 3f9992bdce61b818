// internal/pipeline/orchestrator/orchestrator.go
// Package orchestrator runs the phased discovery pipeline: source
// fan-out, aggregation, validation, categorization, quality gating,
// and ranked assembly.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"connection-finder/internal/common/config"
	pkgerrors "connection-finder/internal/common/errors"
	"connection-finder/internal/common/logger"
	"connection-finder/internal/common/metrics"
	"connection-finder/internal/common/observability"
	"connection-finder/internal/models"
	"connection-finder/internal/pipeline/aggregator"
	"connection-finder/internal/pipeline/cache"
	"connection-finder/internal/pipeline/categorizer"
	"connection-finder/internal/pipeline/cost"
	"connection-finder/internal/pipeline/profilematch"
	"connection-finder/internal/pipeline/ranking"
	"connection-finder/internal/pipeline/ratelimit"
	"connection-finder/internal/pipeline/validator"
	"connection-finder/internal/sources"
)

// Enhancer optionally enriches validated people before categorization.
// It runs only when the time budget allows. The shipped implementation
// is a no-op.
type Enhancer interface {
	Enhance(ctx context.Context, people []models.Person, query models.SearchQuery) []models.Person
}

type NoopEnhancer struct{}

func (NoopEnhancer) Enhance(_ context.Context, people []models.Person, _ models.SearchQuery) []models.Person {
	return people
}

// Finder composes the pipeline services. Construct once per process and
// share across searches; per-search state lives on the stack.
type Finder struct {
	cfg      *config.Config
	registry *sources.Registry
	cache    *cache.Cache
	limiter  *ratelimit.Limiter
	costs    *cost.Tracker
	obs      *observability.Observability
	log      logger.Logger

	validate *validator.Validator
	labels   *categorizer.Categorizer
	matcher  *profilematch.Matcher
	engine   *ranking.Engine
	enhancer Enhancer
}

func New(cfg *config.Config, registry *sources.Registry, c *cache.Cache, limiter *ratelimit.Limiter, costs *cost.Tracker, obs *observability.Observability, log logger.Logger) (*Finder, error) {
	quality := registry.QualityMap()
	matcher := profilematch.New(cfg.Heuristics.Matching, cfg.Heuristics.Categories, quality)
	engine, err := ranking.NewEngine(cfg.Heuristics.Ranking, matcher, quality)
	if err != nil {
		return nil, err
	}

	return &Finder{
		cfg:      cfg,
		registry: registry,
		cache:    c,
		limiter:  limiter,
		costs:    costs,
		obs:      obs,
		log:      log,
		validate: validator.New(cfg.Heuristics.Validation, cfg.Pipeline.MinConfidence, cfg.Pipeline.ShortCircuitConfidence, log),
		labels:   categorizer.New(cfg.Heuristics.Categories),
		matcher:  matcher,
		engine:   engine,
		enhancer: NoopEnhancer{},
	}, nil
}

// SetEnhancer replaces the no-op enrichment step.
func (f *Finder) SetEnhancer(e Enhancer) {
	if e != nil {
		f.enhancer = e
	}
}

// FindConnections runs one search end to end. It always returns a
// structured result; source failures are isolated and recorded, never
// propagated.
func (f *Finder) FindConnections(ctx context.Context, query models.SearchQuery) *models.Result {
	start := time.Now()
	searchID := uuid.NewString()
	log := f.log.WithFields(map[string]interface{}{
		"search_id": searchID,
		"company":   query.Company,
		"title":     query.Title,
	})
	log.Info("starting connection search", nil)

	if query.Domain == "" {
		query.Domain = f.cfg.Heuristics.Domains[strings.ToLower(strings.TrimSpace(query.Company))]
	}

	primary, secondary := f.selectSources(query)
	agg := aggregator.New(log)
	failures := make(map[string]int)
	var skipped []string
	var mu sync.Mutex

	f.runPhase(ctx, primary, query, agg, failures, &skipped, &mu, f.cfg.Pipeline.MaxWorkers)

	if len(secondary) > 0 {
		if !f.withinBudget(start) {
			log.Warn("skipping secondary sources", map[string]interface{}{
				"error": pkgerrors.NewBudgetExceeded(time.Since(start), f.cfg.Pipeline.TimeBudget).Error(),
			})
		}
		for _, src := range secondary {
			if !f.withinBudget(start) || f.enoughResults(agg.GetAll()) {
				break
			}
			f.runPhase(ctx, []sources.Capability{src}, query, agg, failures, &skipped, &mu, 1)
		}
	}

	people, vm := f.validate.ValidateBatch(agg.GetAll(), query.Company, query.Domain)

	if f.cfg.Pipeline.EnhanceEnabled && f.withinBudget(start) {
		people = f.enhancer.Enhance(ctx, people, query)
	}

	people = f.labels.CategorizeBatch(people, query.Title)

	selected, gate := f.qualityGate(people, query)

	result := f.assemble(searchID, query, selected, agg, vm, gate, failures, skipped, start)

	status := "ok"
	if result.TotalFound == 0 {
		status = "empty"
	}
	if f.obs != nil {
		f.obs.RecordSearch(ctx, status)
		f.obs.RecordSearchDuration(ctx, time.Since(start), status)
	}
	metrics.SearchesTotal.WithLabelValues(status).Inc()
	metrics.SearchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	log.Info("search complete", map[string]interface{}{
		"total_found":     result.TotalFound,
		"elapsed_seconds": result.ElapsedSeconds,
	})
	return result
}

func (f *Finder) withinBudget(start time.Time) bool {
	return time.Since(start) < f.cfg.Pipeline.TimeBudget
}

func (f *Finder) enoughResults(people []models.Person) bool {
	var good int
	for _, p := range people {
		if p.ConfidenceScore >= f.cfg.Pipeline.LowQualityConfidence {
			good++
		}
	}
	return good >= f.cfg.Pipeline.EarlyStopCount
}

// selectSources orders the enabled sources and splits them into the
// primary and secondary phases. A tag preference derived from industry
// or role keywords moves matching sources to the front.
func (f *Finder) selectSources(query models.SearchQuery) (primary, secondary []sources.Capability) {
	enabled := f.registry.Enabled()
	preferredTag := f.preferredTag(query)

	if preferredTag != "" {
		var preferred, rest []sources.Capability
		for _, s := range enabled {
			if hasTag(f.registry.Tags(s.Name()), preferredTag) {
				preferred = append(preferred, s)
			} else {
				rest = append(rest, s)
			}
		}
		enabled = append(preferred, rest...)
	}

	n := f.cfg.Pipeline.PrimarySourceCount
	if n <= 0 || n > len(enabled) {
		n = len(enabled)
	}
	return enabled[:n], enabled[n:]
}

func (f *Finder) preferredTag(query models.SearchQuery) string {
	company := strings.ToLower(query.Company)
	for keyword, tag := range f.cfg.Heuristics.Selection.IndustryTags {
		if strings.Contains(company, keyword) {
			return tag
		}
	}
	title := strings.ToLower(query.Title)
	for keyword, tag := range f.cfg.Heuristics.Selection.RoleTags {
		if strings.Contains(title, keyword) {
			return tag
		}
	}
	return ""
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// runPhase fans the query out to the given sources through a bounded
// worker pool. Each source runs isolated: a failure is logged and
// counted, and the phase carries on.
func (f *Finder) runPhase(ctx context.Context, phase []sources.Capability, query models.SearchQuery, agg *aggregator.Aggregator, failures map[string]int, skipped *[]string, mu *sync.Mutex, workers int) {
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, src := range phase {
		if !src.IsConfigured() {
			mu.Lock()
			*skipped = append(*skipped, src.Name())
			mu.Unlock()
			f.log.Debug("skipping source", map[string]interface{}{
				"error": pkgerrors.NewConfigurationMissing(src.Name()).Error(),
			})
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(src sources.Capability) {
			defer wg.Done()
			defer func() { <-sem }()

			people, err := f.callSource(ctx, src, query)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[src.Name()]++
				metrics.SourceCallsTotal.WithLabelValues(src.Name(), "error").Inc()
				f.log.WithError(err).Warn("source failed", map[string]interface{}{
					"source":    src.Name(),
					"code":      string(pkgerrors.CodeOf(err)),
					"retryable": pkgerrors.IsRetryable(err),
				})
				return
			}
			metrics.SourceCallsTotal.WithLabelValues(src.Name(), "ok").Inc()
			metrics.PeopleFound.WithLabelValues(src.Name()).Add(float64(len(people)))
			agg.AddBatch(src.Name(), people)
		}(src)
	}
	wg.Wait()
}

func (f *Finder) callSource(ctx context.Context, src sources.Capability, query models.SearchQuery) ([]models.Person, error) {
	name := src.Name()

	if query.UseCache && f.cache != nil {
		if people, hit, err := f.cache.Get(ctx, name, query); err == nil && hit {
			metrics.CacheLookups.WithLabelValues(name, "hit").Inc()
			return people, nil
		}
		metrics.CacheLookups.WithLabelValues(name, "miss").Inc()
	}

	if f.limiter != nil {
		if _, err := f.limiter.Wait(ctx, name); err != nil {
			return nil, err
		}
	}

	callCtx := ctx
	if f.cfg.Pipeline.SourceTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, f.cfg.Pipeline.SourceTimeout)
		defer cancel()
	}

	settings := f.registry.Settings(name)
	people, err := src.SearchPeople(callCtx, query.Company, query.Title, sources.SearchOptions{
		Domain:  query.Domain,
		Profile: query.Profile,
		Job:     query.Job,
	})
	if f.costs != nil {
		f.costs.Record(name, settings.CostPerRequest)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.NewSourceTimeout(name)
		}
		return nil, pkgerrors.NewSourceFailure(name, err)
	}

	if query.UseCache && f.cache != nil {
		if cerr := f.cache.Set(ctx, name, query, people); cerr != nil {
			f.log.Warn("cache write failed", map[string]interface{}{
				"source": name,
				"error":  cerr.Error(),
			})
		}
	}
	return people, nil
}

// qualityGate applies the sequential gates and the diversity rules,
// producing the final selected set.
func (f *Finder) qualityGate(people []models.Person, query models.SearchQuery) ([]models.Person, models.QualityGateResult) {
	var gate models.QualityGateResult

	relevance := make(map[string]float64, len(people))
	for _, p := range people {
		score, _ := f.matcher.CalculateRelevance(p, query.Profile, query.Job)
		relevance[p.DedupeKey()] = score
	}

	var high []models.Person
	for _, p := range people {
		if completeness(p) > f.cfg.Pipeline.CompletenessGate &&
			p.ConfidenceScore > f.cfg.Pipeline.ConfidenceGate &&
			relevance[p.DedupeKey()] > f.cfg.Pipeline.RelevanceGate {
			high = append(high, p)
		}
	}

	// per-category cap keeps the set diverse
	perCategory := make(map[models.Category]int)
	selectedKeys := make(map[string]bool)
	var selected []models.Person
	for _, p := range high {
		if perCategory[p.Category] >= f.cfg.Pipeline.MaxPerCategory {
			continue
		}
		perCategory[p.Category]++
		selected = append(selected, p)
		selectedKeys[p.DedupeKey()] = true
	}

	// always surface at least one recruiter and one manager when any exist
	for _, must := range []models.Category{models.CategoryRecruiter, models.CategoryManager} {
		if perCategory[must] > 0 {
			continue
		}
		if best, ok := bestOfCategory(people, must, selectedKeys); ok {
			selected = append(selected, best)
			selectedKeys[best.DedupeKey()] = true
			perCategory[must]++
		}
	}

	gate.HighConfidence = len(selected)
	gate.RecruiterIncluded = perCategory[models.CategoryRecruiter] > 0
	gate.ManagerIncluded = perCategory[models.CategoryManager] > 0

	// pad from the next-best remainder up to the target count
	if len(selected) < f.cfg.Pipeline.TargetCount {
		for _, p := range people {
			if len(selected) >= f.cfg.Pipeline.TargetCount {
				break
			}
			if selectedKeys[p.DedupeKey()] {
				continue
			}
			selected = append(selected, p)
			selectedKeys[p.DedupeKey()] = true
			gate.AdditionalOptions++
		}
	}

	return selected, gate
}

func bestOfCategory(people []models.Person, c models.Category, taken map[string]bool) (models.Person, bool) {
	var best models.Person
	var found bool
	for _, p := range people {
		if p.Category != c || taken[p.DedupeKey()] {
			continue
		}
		if !found || p.ConfidenceScore > best.ConfidenceScore {
			best = p
			found = true
		}
	}
	return best, found
}

// completeness mirrors the data-quality factor: how much of the record
// is filled in.
func completeness(p models.Person) float64 {
	var score float64
	if p.LinkedInURL != "" {
		score += 0.3
	}
	if p.Title != "" {
		score += 0.3
	}
	if p.Location != "" {
		score += 0.15
	}
	if p.Department != "" {
		score += 0.1
	}
	if p.Category != models.CategoryUnknown {
		score += 0.15
	}
	return score
}

func (f *Finder) assemble(searchID string, query models.SearchQuery, selected []models.Person, agg *aggregator.Aggregator, vm models.ValidationMetrics, gate models.QualityGateResult, failures map[string]int, skipped []string, start time.Time) *models.Result {
	byCategory := make(map[models.Category][]models.Person)
	for _, p := range selected {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	out := make(map[string][]models.RankedPerson, len(byCategory))
	counts := make(map[string]int, len(byCategory))
	for category, group := range byCategory {
		ranked := f.engine.RankPeople(group, query.Job, query.Profile)
		entries := make([]models.RankedPerson, 0, len(ranked))
		for _, r := range ranked {
			entries = append(entries, models.NewRankedPerson(
				r.Person, r.Score, r.Breakdown, r.Reasons, f.engine.Explain(r)))
		}
		out[string(category)] = entries
		counts[string(category)] = len(entries)
	}

	stats := agg.Stats()
	stats.Failures = failures
	stats.Skipped = skipped

	var costStats models.CostStats
	if f.costs != nil {
		costStats = f.costs.Stats()
	}

	return &models.Result{
		SearchID:          searchID,
		Company:           query.Company,
		Title:             query.Title,
		TotalFound:        len(selected),
		ByCategory:        out,
		CategoryCounts:    counts,
		SourceStats:       stats,
		CostStats:         costStats,
		ValidationMetrics: vm,
		QualityGate:       gate,
		ElapsedSeconds:    models.Round2(time.Since(start).Seconds()),
	}
}
