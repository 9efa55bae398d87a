package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/decision"
	"cardano-pool-sentinel/internal/discovery"
	"cardano-pool-sentinel/internal/domain"
	"cardano-pool-sentinel/internal/idhash"
	"cardano-pool-sentinel/internal/risk"
	"cardano-pool-sentinel/internal/storage"
)

// Runner defaults.
const (
	DefaultScanInterval   = 30 * time.Second
	DefaultReportInterval = 5 * time.Minute
	DefaultErrorBackoff   = 10 * time.Second
	DefaultFetchLimit     = 4
)

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Client      chain.Client
	Cursor      *Cursor
	Matcher     *discovery.Matcher
	Ledger      *discovery.Ledger
	Engine      *risk.Engine
	Evaluator   *decision.Evaluator
	Assessments storage.AssessmentStore // optional archive, may be nil
	Stats       *Stats
	Tips        <-chan *chain.Block // optional wake-up hints, may be nil

	ScanInterval   time.Duration // default 30s
	ReportInterval time.Duration // default 5m
	ErrorBackoff   time.Duration // default 10s
	FetchLimit     int           // concurrent output fetches per block, default 4
	Logger         *logrus.Logger
}

// Runner drives the polling pipeline: advance the cursor, walk the new
// block range, match and dedup pool creations, score, decide and route.
// The cursor is confirmed only after a whole range succeeded, giving
// at-least-once semantics across restarts.
type Runner struct {
	client      chain.Client
	cursor      *Cursor
	matcher     *discovery.Matcher
	ledger      *discovery.Ledger
	engine      *risk.Engine
	evaluator   *decision.Evaluator
	assessments storage.AssessmentStore
	stats       *Stats
	tips        <-chan *chain.Block

	scanInterval   time.Duration
	reportInterval time.Duration
	errorBackoff   time.Duration
	fetchLimit     int
	logger         *logrus.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(opts RunnerOptions) *Runner {
	scanInterval := opts.ScanInterval
	if scanInterval == 0 {
		scanInterval = DefaultScanInterval
	}
	reportInterval := opts.ReportInterval
	if reportInterval == 0 {
		reportInterval = DefaultReportInterval
	}
	errorBackoff := opts.ErrorBackoff
	if errorBackoff == 0 {
		errorBackoff = DefaultErrorBackoff
	}
	fetchLimit := opts.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = DefaultFetchLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	stats := opts.Stats
	if stats == nil {
		stats = NewStats(0, nil)
	}

	return &Runner{
		client:         opts.Client,
		cursor:         opts.Cursor,
		matcher:        opts.Matcher,
		ledger:         opts.Ledger,
		engine:         opts.Engine,
		evaluator:      opts.Evaluator,
		assessments:    opts.Assessments,
		stats:          stats,
		tips:           opts.Tips,
		scanInterval:   scanInterval,
		reportInterval: reportInterval,
		errorBackoff:   errorBackoff,
		fetchLimit:     fetchLimit,
		logger:         logger,
	}
}

// Run starts the polling loop. It blocks until the context is
// cancelled. Transient provider failures degrade to a fixed backoff
// before the next cycle; the loop itself never aborts on them.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.ledger.WarmCache(ctx); err != nil {
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"scan_interval":   r.scanInterval,
		"report_interval": r.reportInterval,
	}).Info("Scanner started")

	scanTicker := time.NewTicker(r.scanInterval)
	defer scanTicker.Stop()
	reportTicker := time.NewTicker(r.reportInterval)
	defer reportTicker.Stop()

	r.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Scanner stopping")
			return ctx.Err()

		case <-scanTicker.C:
			r.runCycle(ctx)

		case tip, ok := <-r.tips:
			// Tip hints only shorten the wait; polling stays the source
			// of truth, so a dead stream costs nothing.
			if !ok {
				r.tips = nil
				continue
			}
			if tip != nil && r.stats.metrics != nil {
				r.stats.metrics.TipHeight.Set(float64(tip.Height))
			}
			r.runCycle(ctx)

		case <-reportTicker.C:
			r.report()
		}
	}
}

// runCycle executes one cycle and applies the error backoff on failure.
func (r *Runner) runCycle(ctx context.Context) {
	err := r.cycle(ctx)
	if err == nil || ctx.Err() != nil {
		return
	}

	if r.stats.metrics != nil {
		r.stats.metrics.ProviderErrors.Inc()
		r.stats.metrics.ScanCycles.WithLabelValues("error").Inc()
	}
	r.logger.WithError(err).Warn("Scan cycle failed, backing off")

	select {
	case <-ctx.Done():
	case <-time.After(r.errorBackoff):
	}
}

// cycle advances the cursor and processes the returned range. The
// cursor is confirmed only after every block in the range succeeded.
func (r *Runner) cycle(ctx context.Context) error {
	rng, ok, err := r.cursor.Advance(ctx)
	if err != nil {
		return err
	}
	r.stats.MarkChecked()
	if !ok {
		r.logger.Debug("No new blocks")
		return nil
	}

	r.logger.WithFields(logrus.Fields{
		"from": rng.From,
		"to":   rng.To,
	}).Debug("Scanning block range")

	for height := rng.From; height <= rng.To; height++ {
		if err := r.scanBlock(ctx, height); err != nil {
			return err
		}
		r.stats.BlockScanned()
	}

	if err := r.cursor.Confirm(ctx, rng.To); err != nil {
		return err
	}
	if r.stats.metrics != nil {
		r.stats.metrics.CursorHeight.Set(float64(rng.To))
		r.stats.metrics.ScanCycles.WithLabelValues("ok").Inc()
	}
	return nil
}

// ScanRange processes a fixed inclusive height range once, without
// touching the cursor. Used by the one-shot scan command.
func (r *Runner) ScanRange(ctx context.Context, from, to int64) error {
	if err := r.ledger.WarmCache(ctx); err != nil {
		return err
	}
	for height := from; height <= to; height++ {
		if err := r.scanBlock(ctx, height); err != nil {
			return fmt.Errorf("block %d: %w", height, err)
		}
		r.stats.BlockScanned()
	}
	return nil
}

// txWork is a transaction with its fetched outputs.
type txWork struct {
	tx      *chain.Transaction
	outputs []chain.TxOutput
}

// scanBlock processes every transaction in a block. Provider calls for
// independent transactions run concurrently, bounded by fetchLimit;
// matching and the ledger check stay serialized so dedup order is
// deterministic. A failure on one transaction never aborts the rest of
// the block.
func (r *Runner) scanBlock(ctx context.Context, height int64) error {
	hashes, err := r.client.BlockTransactions(ctx, height)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return nil
	}

	work := make([]txWork, len(hashes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fetchLimit)
	for i, hash := range hashes {
		g.Go(func() error {
			tx, err := r.client.Transaction(gctx, hash)
			if err != nil {
				r.logger.WithField("tx", hash).WithError(err).Warn("Skipping transaction")
				return nil
			}
			outputs, err := r.client.TransactionOutputs(gctx, hash)
			if err != nil {
				r.logger.WithField("tx", hash).WithError(err).Warn("Skipping transaction")
				return nil
			}
			work[i] = txWork{tx: tx, outputs: outputs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, w := range work {
		if w.tx == nil {
			continue
		}
		r.processTx(ctx, w.tx, w.outputs)
	}
	return nil
}

// processTx runs the match → ledger → score → decide chain for one
// transaction. All failures here are contained to the transaction.
func (r *Runner) processTx(ctx context.Context, tx *chain.Transaction, outputs []chain.TxOutput) {
	event := r.matcher.Match(ctx, tx, outputs)
	if event == nil {
		return
	}

	outcome, err := r.ledger.Observe(ctx, event.PoolID)
	if err != nil {
		r.logger.WithField("pool_id", event.PoolID).WithError(err).Warn("Ledger check failed")
		return
	}
	if outcome == discovery.Duplicate {
		r.stats.DuplicatePool()
		return
	}

	r.stats.PoolDetected(event)
	r.logger.WithFields(logrus.Fields{
		"pool":          idhash.ShortCode(event.PoolID),
		"dex":           event.Dex,
		"pair":          event.TokenA.Unit() + "/" + event.TokenB.Unit(),
		"liquidity_ada": event.LiquidityADA,
		"block":         event.BlockHeight,
	}).Info("New pool detected")

	assessment := r.engine.Assess(ctx, event)
	r.stats.ScoreObserved(assessment.Score)
	r.evaluator.Evaluate(ctx, event, assessment)
	r.archive(ctx, event, assessment)
}

// archive appends the finalized assessment to the optional store.
func (r *Runner) archive(ctx context.Context, event *domain.PoolEvent, assessment *domain.RiskAssessment) {
	if r.assessments == nil {
		return
	}
	rec := &storage.AssessmentRecord{
		PoolID:         event.PoolID,
		Dex:            event.Dex,
		TxHash:         event.TxHash,
		BlockHeight:    event.BlockHeight,
		Score:          assessment.Score,
		Recommendation: string(assessment.Recommendation),
		Reasons:        assessment.Reasons,
		LiquidityADA:   event.LiquidityADA,
		AssessedAt:     assessment.AssessedAt,
	}
	if err := r.assessments.Insert(ctx, rec); err != nil {
		r.logger.WithField("pool_id", event.PoolID).WithError(err).Warn("Assessment archive failed")
	}
}

// report logs the aggregate counters.
func (r *Runner) report() {
	snap := r.stats.Snapshot()
	r.logger.WithFields(logrus.Fields{
		"blocks_scanned":  snap.BlocksScanned,
		"pools_detected":  snap.PoolsDetected,
		"scams_filtered":  snap.ScamsFiltered,
		"trades_executed": snap.TradesExecuted,
		"analysis_failed": snap.AnalysisFailed,
		"volume_ada":      snap.VolumeADA,
		"uptime":          snap.Uptime.Round(time.Second).String(),
	}).Info("Pipeline statistics")
}
