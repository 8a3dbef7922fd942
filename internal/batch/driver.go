package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/edelwud/expoci/internal/filter"
	"github.com/edelwud/expoci/internal/pipeline"
	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/log"
	"github.com/edelwud/expoci/pkg/options"
)

// DefaultWorkers is the number of parallel writers when none is configured
const DefaultWorkers = 4

// Options configures a batch run
type Options struct {
	// Dir receives the workflows and the manifest
	Dir string
	// Limit stops generation after this many combinations (0 means no limit)
	Limit int
	// Workers bounds parallel writes
	Workers int
	// Filter selects combinations; nil keeps all
	Filter filter.OptionsFilter
	// ValidOnly skips combinations rejected by validation
	ValidOnly bool
}

// Failure records a combination that could not be written
type Failure struct {
	Filename string
	Err      error
}

// Result summarizes a batch run
type Result struct {
	Manifest Manifest
	Failures []Failure
	// Skipped counts combinations dropped by the filter or validation
	Skipped int
}

// Written returns the number of workflows written
func (r *Result) Written() int {
	return len(r.Manifest)
}

// Driver renders combinations with a pipeline generator
type Driver struct {
	generator pipeline.Generator
	table     Table
	opts      Options
}

// NewDriver creates a batch driver
func NewDriver(generator pipeline.Generator, table Table, opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Driver{generator: generator, table: table, opts: opts}
}

// job is a combination with its index and destination fixed before dispatch
type job struct {
	index    int
	options  options.BuildOptions
	filename string
	valid    bool
}

// plan selects the combinations to generate and assigns their file names.
// Selection stops once the limit is reached.
func (d *Driver) plan() ([]job, int) {
	var jobs []job
	skipped := 0

	d.table.Each(func(o options.BuildOptions) bool {
		if d.opts.Limit > 0 && len(jobs) >= d.opts.Limit {
			return false
		}
		if d.opts.Filter != nil && !d.opts.Filter.Match(o) {
			skipped++
			return true
		}
		valid := validation.Validate(o).Valid()
		if d.opts.ValidOnly && !valid {
			skipped++
			return true
		}

		index := len(jobs)
		jobs = append(jobs, job{
			index:    index,
			options:  o,
			filename: FileName(o, index),
			valid:    valid,
		})
		return true
	})

	return jobs, skipped
}

// Run generates every planned combination into the output directory.
// A failing combination is logged and recorded; it never stops the batch.
// Only setup errors and cancellation are returned.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(d.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs, skipped := d.plan()
	log.WithField("combinations", len(jobs)).
		WithField("skipped", skipped).
		WithField("workers", d.opts.Workers).
		Debug("planned batch")

	result := &Result{Skipped: skipped}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)

	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entry, err := d.write(j)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.WithField("combination", j.filename).WithError(err).Warn("failed to generate workflow")
				result.Failures = append(result.Failures, Failure{Filename: j.filename, Err: err})
				return nil
			}
			result.Manifest = append(result.Manifest, entry)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	result.Manifest.Sort()
	if err := WriteManifest(d.opts.Dir, result.Manifest); err != nil {
		return result, err
	}

	return result, nil
}

func (d *Driver) write(j job) (ManifestEntry, error) {
	generated, err := d.generator.Generate(j.options)
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("generate: %w", err)
	}
	content, err := generated.ToYAML()
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("render: %w", err)
	}

	path := filepath.Join(d.opts.Dir, j.filename)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return ManifestEntry{}, fmt.Errorf("write: %w", err)
	}
	log.Debugf("wrote %s", j.filename)

	return ManifestEntry{
		Path:     path,
		Filename: j.filename,
		Key:      j.options.Key(),
		Valid:    j.valid,
		Configuration: Configuration{
			Storage:    j.options.Storage,
			BuildKinds: j.options.BuildKinds,
			Checks:     j.options.Checks,
			Triggers:   j.options.Triggers,
			IOS:        j.options.Advanced.IOSSupport,
			Index:      j.index,
		},
	}, nil
}
