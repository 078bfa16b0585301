// Package runner orchestrates one scrape run: enumerate units, resolve
// each into a record, normalize it and finalize the run's artifact.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/schulverzeichnis/gather/internal/extract"
	"github.com/schulverzeichnis/gather/internal/fetch"
	"github.com/schulverzeichnis/gather/internal/normalize"
	"github.com/schulverzeichnis/gather/internal/source"
	"github.com/schulverzeichnis/gather/internal/utils/output"
	"github.com/schulverzeichnis/gather/pkg/models"
)

// ErrNoData indicates a run that completed without collecting a single
// record. No artifact is written in that case.
var ErrNoData = errors.New("no records collected")

// EventType classifies the progress events a run emits.
type EventType int

const (
	// EventUnitStarted fires before a unit is processed.
	EventUnitStarted EventType = iota
	// EventUnitCollected fires after a unit produced a record.
	EventUnitCollected
	// EventUnitSkipped fires for units left unprocessed after an
	// interruption.
	EventUnitSkipped
	// EventUnitFailed fires when a unit is dropped after its fetch
	// exhausted the retry budget.
	EventUnitFailed
	// EventRunFinalized fires once, after the artifact is handled.
	EventRunFinalized
)

// Event is one progress notification. Index is 1-based.
type Event struct {
	Type  EventType
	Index int
	Total int
	Name  string
	Err   error
}

// Sink receives progress events. A nil sink disables reporting.
type Sink func(Event)

// Options tune a single run.
type Options struct {
	// Limit caps the number of units processed; zero or less means all.
	Limit int
	// MaxPages caps page-numbered listing traversal.
	MaxPages int
	// OutDir is the artifact destination directory.
	OutDir string
	// Sink receives progress events.
	Sink Sink
}

// Result summarizes a finished run.
type Result struct {
	Records     []models.SchoolRecord
	Path        string
	Interrupted bool
}

// Runner executes the scrape pipeline for one source.
type Runner struct {
	source  *source.Config
	fetcher *fetch.Client
	opts    Options
}

// New builds a runner around a configured source and a run-scoped
// fetch client.
func New(cfg *source.Config, fetcher *fetch.Client, opts Options) *Runner {
	return &Runner{source: cfg, fetcher: fetcher, opts: opts}
}

func (r *Runner) emit(e Event) {
	if r.opts.Sink != nil {
		r.opts.Sink(e)
	}
}

// Run executes the full pipeline. Cancellation of ctx interrupts the
// run between units; records collected up to that point are still
// written. A unit whose fetch fails is logged and dropped without
// aborting the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log.Info().Str("source", r.source.Name).Msg("run started")

	units, err := r.source.Enumerator(r.opts.MaxPages).Enumerate(ctx, r.fetcher, r.opts.Limit)
	if err != nil && !isInterrupt(err) {
		// A run with no listing still ends in the explicit no-data
		// outcome rather than a process failure.
		log.Error().Err(err).Str("source", r.source.Name).Msg("enumeration failed")
		r.emit(Event{Type: EventRunFinalized})
		return &Result{}, ErrNoData
	}

	result := &Result{Interrupted: err != nil}
	total := len(units)
	for i, unit := range units {
		// Cooperative interruption between units.
		if ctx.Err() != nil {
			result.Interrupted = true
			for j := i; j < total; j++ {
				r.emit(Event{Type: EventUnitSkipped, Index: j + 1, Total: total, Name: units[j].Name})
			}
			log.Warn().
				Int("collected", len(result.Records)).
				Int("remaining", total-i).
				Msg("run interrupted, keeping partial results")
			break
		}

		r.emit(Event{Type: EventUnitStarted, Index: i + 1, Total: total, Name: unit.Name})

		rec, err := r.process(ctx, unit)
		if err != nil {
			if isInterrupt(err) {
				result.Interrupted = true
				r.emit(Event{Type: EventUnitSkipped, Index: i + 1, Total: total, Name: unit.Name})
				for j := i + 1; j < total; j++ {
					r.emit(Event{Type: EventUnitSkipped, Index: j + 1, Total: total, Name: units[j].Name})
				}
				break
			}
			log.Warn().Err(err).Str("unit", unit.Name).Str("id", unit.ID).Msg("unit dropped")
			r.emit(Event{Type: EventUnitFailed, Index: i + 1, Total: total, Name: unit.Name, Err: err})
			continue
		}

		result.Records = append(result.Records, rec)
		r.emit(Event{Type: EventUnitCollected, Index: i + 1, Total: total, Name: rec.Name})
	}

	if len(result.Records) == 0 {
		r.emit(Event{Type: EventRunFinalized, Total: total})
		log.Info().Dur("elapsed", time.Since(start)).Msg("run finished without data")
		return result, ErrNoData
	}

	path := filepath.Join(r.opts.OutDir, output.Filename(r.source.Name, time.Now()))
	if err := output.WriteRecords(result.Records, path); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	result.Path = path

	r.emit(Event{Type: EventRunFinalized, Total: total})
	log.Info().
		Int("records", len(result.Records)).
		Str("path", path).
		Bool("interrupted", result.Interrupted).
		Dur("elapsed", time.Since(start)).
		Msg("run finished")

	return result, nil
}

// process resolves one unit into a normalized record.
func (r *Runner) process(ctx context.Context, unit models.Unit) (models.SchoolRecord, error) {
	var root *goquery.Selection
	switch unit.Kind {
	case models.UnitIndirect:
		doc, err := r.fetcher.GetDocument(ctx, r.source.DetailURL, r.source.DetailParams(unit.ID))
		if err != nil {
			return models.SchoolRecord{}, err
		}
		root = doc.Selection
	case models.UnitDirect:
		root = unit.Fragment
	default:
		return models.SchoolRecord{}, fmt.Errorf("unknown unit kind %q", unit.Kind)
	}

	fields := extract.Extract(root, r.source.Rules)

	for field, value := range r.source.StaticFields {
		if fields[field] == "" {
			fields[field] = value
		}
	}

	fields[models.FieldSourceID] = unit.ID
	if fields[models.FieldName] == "" && unit.Name != "" {
		name := unit.Name
		if r.source.CleanListingName {
			name = normalize.CleanName(name)
		}
		fields[models.FieldName] = name
	}
	if email := fields[models.FieldEmail]; email != "" {
		fields[models.FieldEmail] = normalize.DecodeEmail(email)
	}
	if r.source.ReorderPrincipal {
		if p := fields[models.FieldPrincipal]; p != "" {
			fields[models.FieldPrincipal] = normalize.ReorderPrincipal(p)
		}
	}

	return models.FromFields(fields), nil
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
