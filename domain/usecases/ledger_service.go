package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/DieracDelta/toy-txs/adapters/csvio"
	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/domain/repositories"
	"github.com/DieracDelta/toy-txs/interfaces"
	"github.com/DieracDelta/toy-txs/internal"
)

// LedgerService runs one input stream through an engine and renders the
// resulting ledger.
type LedgerService struct {
	engine interfaces.LedgerEngine
	repo   repositories.AccountRepository
	runID  string
	sorted bool
}

// LedgerServiceOptions holds the optional collaborators of a run
type LedgerServiceOptions struct {
	// Repository receives the final ledger before it is written out; nil skips the export
	Repository repositories.AccountRepository
	// RunID tags logs and exported rows; empty generates one
	RunID string
	// Sorted orders rows by client id
	Sorted bool
}

func NewLedgerService(engine interfaces.LedgerEngine, opts LedgerServiceOptions) *LedgerService {
	runID := opts.RunID
	if runID == "" {
		runID = internal.GenerateRunID()
	}
	return &LedgerService{
		engine: engine,
		repo:   opts.Repository,
		runID:  runID,
		sorted: opts.Sorted,
	}
}

// RunID identifies this service's run
func (s *LedgerService) RunID() string {
	return s.runID
}

// Process decodes every record of in, applies it in order and writes the
// ledger CSV to out. Nothing is written to out unless the whole stream was
// applied and exported.
func (s *LedgerService) Process(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := internal.GetLogger().With().Str("usecase", "Process").Str("run_id", s.runID).Logger()
	logger.Debug().Msg("Starting run")

	rd, err := csvio.NewReader(in)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open input")
		return err
	}

	records := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tx, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error().Err(err).Int("records", records).Msg("Failed to decode record")
			return err
		}
		records++

		if err := tx.Validate(); err != nil {
			logger.Error().Err(err).Int("record", records).Msg("Malformed record")
			return fmt.Errorf("record %d: %w", records, err)
		}
		if err := s.engine.Apply(ctx, tx); err != nil {
			logger.Error().Err(err).Int("record", records).Msg("Run aborted")
			return fmt.Errorf("record %d: %w", records, err)
		}
	}

	rows, err := s.engine.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to snapshot ledger")
		return err
	}
	if s.sorted {
		models.SortSnapshots(rows)
	}

	if s.repo != nil {
		if err := s.repo.SaveAll(ctx, s.runID, rows); err != nil {
			logger.Error().Err(err).Msg("Failed to export ledger")
			return fmt.Errorf("failed to export ledger: %w", err)
		}
		logger.Debug().Int("accounts", len(rows)).Msg("Exported ledger")
	}

	var buf bytes.Buffer
	if err := csvio.WriteAccounts(&buf, rows); err != nil {
		return err
	}

	if stats, err := s.engine.Stats(ctx); err == nil {
		logger.Info().
			Int("records", records).
			Int("applied", stats.Applied).
			Int("rejected", stats.Rejected).
			Int("accounts", stats.Accounts).
			Int("shards", stats.Shards).
			Msg("Run completed")
	}

	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}
