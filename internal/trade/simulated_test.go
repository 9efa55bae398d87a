package trade

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"cardano-pool-sentinel/internal/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSimulatedExecutor_AccumulatesVolume(t *testing.T) {
	exec := NewSimulatedExecutor(25, quietLogger())
	event := &domain.PoolEvent{PoolID: "pool-1", Dex: "Minswap"}
	assessment := &domain.RiskAssessment{PoolID: "pool-1", Score: 0.1}

	for i := 0; i < 3; i++ {
		if err := exec.Execute(context.Background(), event, assessment); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	}

	trades, volume := exec.Totals()
	if trades != 3 {
		t.Errorf("Expected 3 trades, got %d", trades)
	}
	if volume != 75 {
		t.Errorf("Expected 75 ADA volume, got %f", volume)
	}
}

func TestSimulatedExecutor_DefaultTradeSize(t *testing.T) {
	exec := NewSimulatedExecutor(0, quietLogger())
	event := &domain.PoolEvent{PoolID: "pool-1"}

	if err := exec.Execute(context.Background(), event, &domain.RiskAssessment{}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	_, volume := exec.Totals()
	if volume != DefaultTradeADA {
		t.Errorf("Expected default trade size %f, got %f", DefaultTradeADA, volume)
	}
}

func TestSimulatedExecutor_ConcurrentExecutes(t *testing.T) {
	exec := NewSimulatedExecutor(10, quietLogger())
	event := &domain.PoolEvent{PoolID: "pool-1"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			exec.Execute(context.Background(), event, &domain.RiskAssessment{})
		}()
	}
	wg.Wait()

	trades, volume := exec.Totals()
	if trades != 16 || volume != 160 {
		t.Errorf("Expected 16 trades / 160 ADA, got %d / %f", trades, volume)
	}
}
