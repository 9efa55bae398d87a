package decision

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"cardano-pool-sentinel/internal/domain"
)

type fakeExecutor struct {
	calls int
	err   error
}

func (f *fakeExecutor) Execute(_ context.Context, _ *domain.PoolEvent, _ *domain.RiskAssessment) error {
	f.calls++
	return f.err
}

type countingSink struct {
	executed int
	filtered int
	failed   int
}

func (s *countingSink) TradeExecuted(*domain.PoolEvent)         { s.executed++ }
func (s *countingSink) PoolFiltered(*domain.PoolEvent, float64) { s.filtered++ }
func (s *countingSink) AnalysisFailed(*domain.PoolEvent)        { s.failed++ }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestEvaluate_SafeInvokesHook(t *testing.T) {
	exec := &fakeExecutor{}
	sink := &countingSink{}
	ev := NewEvaluator(exec, sink, 0.5, quietLogger())

	event := &domain.PoolEvent{PoolID: "pool-1", Dex: "Minswap"}
	assessment := &domain.RiskAssessment{PoolID: "pool-1", Score: 0.2}

	record := ev.Evaluate(context.Background(), event, assessment)

	if record.Recommendation != domain.SafeToTrade {
		t.Errorf("Expected SAFE_TO_TRADE, got %q", record.Recommendation)
	}
	if assessment.Recommendation != domain.SafeToTrade {
		t.Error("Assessment recommendation not finalized")
	}
	if exec.calls != 1 {
		t.Errorf("Expected 1 hook call, got %d", exec.calls)
	}
	if sink.executed != 1 || sink.filtered != 0 {
		t.Errorf("Unexpected sink counters: %+v", sink)
	}
}

func TestEvaluate_RiskySkipsHook(t *testing.T) {
	exec := &fakeExecutor{}
	sink := &countingSink{}
	ev := NewEvaluator(exec, sink, 0.5, quietLogger())

	event := &domain.PoolEvent{PoolID: "pool-1", Dex: "Minswap"}
	assessment := &domain.RiskAssessment{PoolID: "pool-1", Score: 1.25}

	record := ev.Evaluate(context.Background(), event, assessment)

	if record.Recommendation != domain.TooRisky {
		t.Errorf("Expected TOO_RISKY, got %q", record.Recommendation)
	}
	if exec.calls != 0 {
		t.Errorf("Hook must not run for risky pools, got %d calls", exec.calls)
	}
	if sink.filtered != 1 || sink.executed != 0 {
		t.Errorf("Unexpected sink counters: %+v", sink)
	}
}

func TestEvaluate_HookFailureNotCounted(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("wallet offline")}
	sink := &countingSink{}
	ev := NewEvaluator(exec, sink, 0.5, quietLogger())

	event := &domain.PoolEvent{PoolID: "pool-1"}
	record := ev.Evaluate(context.Background(), event, &domain.RiskAssessment{Score: 0})

	if record.Recommendation != domain.SafeToTrade {
		t.Errorf("Hook failure must not change the recommendation, got %q", record.Recommendation)
	}
	if exec.calls != 1 {
		t.Errorf("Expected exactly one attempt, got %d", exec.calls)
	}
	if sink.executed != 0 {
		t.Error("Failed trades must not count as executed")
	}
}

func TestEvaluate_AnalysisFailedNeverTrades(t *testing.T) {
	exec := &fakeExecutor{}
	sink := &countingSink{}
	ev := NewEvaluator(exec, sink, 10, quietLogger())

	// Even with a score under the threshold, a failed analysis must not
	// be routed to the hook.
	assessment := &domain.RiskAssessment{
		Score:          0.1,
		Recommendation: domain.ErrorAnalysisFailed,
	}
	record := ev.Evaluate(context.Background(), &domain.PoolEvent{PoolID: "pool-1"}, assessment)

	if record.Recommendation != domain.ErrorAnalysisFailed {
		t.Errorf("Expected ERROR_ANALYSIS_FAILED preserved, got %q", record.Recommendation)
	}
	if exec.calls != 0 {
		t.Error("Hook must not run for failed analyses")
	}
	if sink.failed != 1 {
		t.Errorf("Expected 1 failed count, got %d", sink.failed)
	}
}

func TestEvaluate_NilSink(t *testing.T) {
	ev := NewEvaluator(&fakeExecutor{}, nil, 0.5, quietLogger())
	record := ev.Evaluate(context.Background(), &domain.PoolEvent{PoolID: "pool-1"}, &domain.RiskAssessment{Score: 0.9})
	if record.Recommendation != domain.TooRisky {
		t.Errorf("Expected TOO_RISKY, got %q", record.Recommendation)
	}
}
