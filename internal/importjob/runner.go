package importjob

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fortuna/carddex/internal/catalog"
	"github.com/fortuna/carddex/internal/checklist"
	"github.com/fortuna/carddex/internal/ingest/tcdb"
	"github.com/fortuna/carddex/internal/store"
)

// DefaultRunner executes jobs against the catalog importer and, when
// configured, the TCDB ingester.
type DefaultRunner struct {
	importer *catalog.Importer
	ingester *tcdb.Ingester
}

// NewDefaultRunner constructs a runner. ingester may be nil; TCDB jobs then
// fail with a clear error instead of panicking.
func NewDefaultRunner(importer *catalog.Importer, ingester *tcdb.Ingester) *DefaultRunner {
	return &DefaultRunner{importer: importer, ingester: ingester}
}

// Run dispatches one claimed job by type.
func (r *DefaultRunner) Run(ctx context.Context, job *Job, progress ProgressFunc) error {
	switch job.JobType {
	case JobTypeChecklistText:
		return r.runChecklist(ctx, job, progress)
	case JobTypeTCDBSet:
		return r.runTCDB(ctx, job, progress)
	default:
		return fmt.Errorf("unknown job type: %s", job.JobType)
	}
}

func (r *DefaultRunner) runChecklist(ctx context.Context, job *Job, progress ProgressFunc) error {
	if !job.Payload.Valid || job.Payload.String == "" {
		return fmt.Errorf("checklist job %s has no payload", job.JobID)
	}
	text := job.Payload.String
	if len(text) > checklist.MaxChecklistBytes {
		return fmt.Errorf("checklist exceeds %d bytes", checklist.MaxChecklistBytes)
	}

	progress(0, 0, "Parsing checklist")

	if job.SetID.Valid {
		stats, _, err := r.importer.ImportText(ctx, int(job.SetID.Int32), text)
		if err != nil {
			return err
		}
		progress(stats.Cards, stats.Cards, "Import complete")
		return nil
	}

	result := checklist.ParseChecklist(text)

	setID, err := r.importer.CreateSet(ctx, job.SetName.String, job.Sport, store.SourceManual, result.Metadata)
	if err != nil {
		return err
	}

	progress(0, result.Summary.TotalCards, "Importing cards")

	stats, err := r.importer.ImportResult(ctx, setID, result)
	if err != nil {
		return err
	}

	progress(stats.Cards, stats.Cards, "Import complete")
	return nil
}

func (r *DefaultRunner) runTCDB(ctx context.Context, job *Job, progress ProgressFunc) error {
	if r.ingester == nil {
		return fmt.Errorf("TCDB ingestion is not enabled")
	}
	if !job.Payload.Valid {
		return fmt.Errorf("TCDB job %s has no payload", job.JobID)
	}

	tcdbID, err := strconv.Atoi(job.Payload.String)
	if err != nil {
		return fmt.Errorf("invalid TCDB set ID %q: %w", job.Payload.String, err)
	}

	_, err = r.ingester.IngestSet(ctx, tcdbID, job.Sport, progress)
	return err
}
