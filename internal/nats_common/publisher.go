package nats_common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DieracDelta/toy-txs/domain/ledger"
	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

// Publisher is the part of *nats.Conn the diagnostics publisher needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

type drainer interface {
	FlushTimeout(timeout time.Duration) error
	Drain() error
}

// DiagnosticsPublisher publishes one event per rejected or fatal transaction.
// Publish failures are logged and never reach the ledger.
type DiagnosticsPublisher struct {
	pub     Publisher
	subject string
	runID   string
	timeout time.Duration
	logger  *internal.Logger

	mu     sync.Mutex
	sent   int
	failed int
}

var _ interfaces.OutcomeSink = (*DiagnosticsPublisher)(nil)

func NewDiagnosticsPublisher(pub Publisher, subject, runID string, timeout time.Duration, logger *internal.Logger) *DiagnosticsPublisher {
	return &DiagnosticsPublisher{
		pub:     pub,
		subject: subject,
		runID:   runID,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *DiagnosticsPublisher) Record(_ context.Context, tx models.Transaction, outcome ledger.Outcome) {
	if outcome.Applied() {
		return
	}

	data, err := interfaces.NewOutcomeEvent(p.runID, tx, outcome).Marshal()
	if err != nil {
		p.logger.Error(internal.ComponentNATS, "Failed to marshal event for tx %d: %v", tx.TxID, err)
		return
	}

	err = p.pub.Publish(p.subject, data)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failed++
		p.logger.Warn(internal.ComponentNATS, "Failed to publish event for tx %d: %v", tx.TxID, err)
		return
	}
	p.sent++
}

// Counts returns how many events were published and how many failed
func (p *DiagnosticsPublisher) Counts() (sent, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent, p.failed
}

// Close flushes pending events and drains the connection when the publisher owns one
func (p *DiagnosticsPublisher) Close() error {
	d, ok := p.pub.(drainer)
	if !ok {
		return nil
	}
	if err := d.FlushTimeout(p.timeout); err != nil {
		p.logger.Warn(internal.ComponentNATS, "Failed to flush diagnostics: %v", err)
	}
	if err := d.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	sent, failed := p.Counts()
	p.logger.Debug(internal.ComponentNATS, "Published %d diagnostics events, %d failed", sent, failed)
	return nil
}
