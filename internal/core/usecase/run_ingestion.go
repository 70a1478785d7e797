package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/constants"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/port"
)

// RunState tracks where a run is in its lifecycle.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// RunIngestionUseCase drives one complete ingestion run: every configured
// query/feed descriptor, strictly in order, one adapter call per entry with
// a fixed delay in between to respect external rate limits. One entry
// failing never stops the others; one candidate failing never stops the
// rest of its batch. Exactly one run-log row is written per run.
type RunIngestionUseCase struct {
	adapters    map[string]port.SourceAdapterPort
	descriptors []domain.SourceDescriptor
	ingest      *IngestCandidateUseCase
	runLog      port.RunLogPort
	delay       time.Duration
}

// NewRunIngestionUseCase wires the orchestrator. Adapters are indexed by
// their Name(); descriptors naming an unregistered adapter are skipped at
// run time with a log line.
func NewRunIngestionUseCase(
	adapters []port.SourceAdapterPort,
	descriptors []domain.SourceDescriptor,
	ingest *IngestCandidateUseCase,
	runLog port.RunLogPort,
	delay time.Duration,
) *RunIngestionUseCase {
	byName := make(map[string]port.SourceAdapterPort, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &RunIngestionUseCase{
		adapters:    byName,
		descriptors: descriptors,
		ingest:      ingest,
		runLog:      runLog,
		delay:       delay,
	}
}

// Execute performs one run and always returns a summary; err is non-nil only
// for run-level failures (lock errors aside, per-entry problems degrade to
// fewer results rather than failing the run).
func (uc *RunIngestionUseCase) Execute(ctx context.Context) (domain.RunSummary, error) {
	start := time.Now()
	state := StateIdle

	locked, err := uc.runLog.TryAcquireRunLock(ctx, constants.PipelineName)
	if err != nil {
		return domain.RunSummary{
			Success: false,
			Message: "could not acquire run lock",
			Error:   err.Error(),
		}, fmt.Errorf("run: acquire lock: %w", err)
	}
	if !locked {
		log.Println("RunIngestion: Another run holds the lock, skipping this invocation.")
		return domain.RunSummary{
			Success: true,
			Message: "skipped: a run is already in progress",
		}, nil
	}
	defer func() {
		if relErr := uc.runLog.ReleaseRunLock(context.WithoutCancel(ctx), constants.PipelineName); relErr != nil {
			log.Printf("RunIngestion: Failed to release run lock: %v\n", relErr)
		}
	}()

	state = StateRunning
	queryDesc := uc.joinedLabels()
	totalFound := 0
	added := 0

	log.Printf("RunIngestion: Starting run over %d source entries.\n", len(uc.descriptors))

	for i, desc := range uc.descriptors {
		if i > 0 && uc.delay > 0 {
			// Delay-then-call ordering matters for rate-limit compliance.
			select {
			case <-time.After(uc.delay):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			// Cancellation is the one error that escapes per-entry isolation.
			state = StateFailed
			return uc.finishFailed(ctx, start, queryDesc, ctx.Err())
		}

		adapter, ok := uc.adapters[desc.Adapter]
		if !ok {
			log.Printf("RunIngestion: No adapter registered for %q (entry %q), skipping.\n", desc.Adapter, desc.Label)
			continue
		}

		candidates, fetchErr := adapter.Fetch(ctx, desc)
		if fetchErr != nil {
			// Transient-source failure: zero candidates for this entry.
			log.Printf("RunIngestion: Entry %q failed: %v. Continuing with next entry.\n", desc.Label, fetchErr)
			continue
		}

		log.Printf("RunIngestion: Entry %q yielded %d candidates.\n", desc.Label, len(candidates))
		totalFound += len(candidates)

		for _, c := range candidates {
			inserted, ingestErr := uc.ingest.Execute(ctx, c)
			if ingestErr != nil {
				// Persistence-class failure for one candidate: skip it.
				log.Printf("RunIngestion: Candidate %q skipped: %v\n", c.Title, ingestErr)
				continue
			}
			if inserted {
				added++
			}
		}
	}

	state = StateCompleted
	elapsed := time.Since(start).Milliseconds()

	rl := domain.RunLog{
		SearchQuery:        queryDesc,
		ResultsFound:       totalFound,
		NewPropertiesAdded: added,
		ExecutionTimeMs:    elapsed,
		Status:             "success",
		CreatedAt:          time.Now().UTC(),
	}
	if logErr := uc.runLog.Append(ctx, rl); logErr != nil {
		log.Printf("RunIngestion: Failed to append run log: %v\n", logErr)
	}

	msg := "No new properties found, but search completed successfully"
	if added > 0 {
		msg = fmt.Sprintf("Successfully added %d new properties", added)
	}
	log.Printf("RunIngestion: Run %s in %dms. Found: %d, new: %d.\n", state, elapsed, totalFound, added)

	return domain.RunSummary{
		Success:            true,
		TotalFound:         totalFound,
		NewPropertiesAdded: added,
		ExecutionTimeMs:    elapsed,
		Message:            msg,
	}, nil
}

// finishFailed writes the error-status run log (with the aggregates it could
// not salvage zeroed, matching the log schema's failure contract) and
// reports the failure upward.
func (uc *RunIngestionUseCase) finishFailed(ctx context.Context, start time.Time, queryDesc string, cause error) (domain.RunSummary, error) {
	elapsed := time.Since(start).Milliseconds()

	rl := domain.RunLog{
		SearchQuery:     queryDesc,
		ExecutionTimeMs: elapsed,
		Status:          "error",
		ErrorMessage:    cause.Error(),
		CreatedAt:       time.Now().UTC(),
	}
	// The run log must be written even on total failure; use a detached
	// context so a cancelled run can still record itself.
	if logErr := uc.runLog.Append(context.WithoutCancel(ctx), rl); logErr != nil {
		log.Printf("RunIngestion: Failed to append error run log: %v\n", logErr)
	}

	log.Printf("RunIngestion: Run failed after %dms: %v\n", elapsed, cause)
	return domain.RunSummary{
		Success:         false,
		ExecutionTimeMs: elapsed,
		Message:         "ingestion run failed",
		Error:           cause.Error(),
	}, fmt.Errorf("run: %w", cause)
}

func (uc *RunIngestionUseCase) joinedLabels() string {
	labels := make([]string, len(uc.descriptors))
	for i, d := range uc.descriptors {
		labels[i] = d.Label
	}
	return strings.Join(labels, ", ")
}
