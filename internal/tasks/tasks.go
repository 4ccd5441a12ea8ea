// package tasks implements bulk operations against the todo service.
package tasks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/mooreolith/todo-docker/internal/services"
	"github.com/mooreolith/todo-docker/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 16
	defaultRateLimit = 20.0
)

// ImportOpts contains configuration for bulk imports.
type ImportOpts struct {
	Workers   int     // Concurrent workers (default: 4, max: 16)
	RateLimit float64 // Requests per second (default: 20, negative: unlimited)
	Burst     int     // Requests allowed at once before limiting (default: 1)
	Verify    bool    // List once at the end and report the stored count
}

// ItemResult is the outcome of adding a single item.
type ItemResult struct {
	Index int    // Position in the input
	Item  string // Text that was submitted
	Err   error  // Error if the add failed
}

// Retryable reports whether the server turned the item away as busy, so
// importing it again later could succeed.
func (r ItemResult) Retryable() bool {
	var apiErr *services.APIError
	return errors.As(r.Err, &apiErr) && apiErr.Temporary()
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Total     int          // Items in the input
	Added     int          // Items the server accepted
	Failed    int          // Items the server or transport rejected
	Retryable int          // Failed items rejected as busy (pool exhausted or rate limited)
	Skipped   int          // Items never sent because the import was cancelled
	Stored    int          // Todos on the server after the import (-1 unless verified)
	Results   []ItemResult // Per-item results in input order
}

// Importer adds many items through a [services.TodoClient] with a bounded worker pool.
type Importer struct {
	client services.TodoClient
}

// NewImporter creates an [Importer] using client.
func NewImporter(client services.TodoClient) *Importer {
	return &Importer{client: client}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Importer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type importJob struct {
	index int
	item  string
}

// Import adds every item, at most opts.Workers at a time and no faster than opts.RateLimit.
//
// A failed item does not stop the others. Cancelling ctx stops handing out new items;
// the partial result is returned with the context error.
func (e *Importer) Import(ctx context.Context, prog chan<- ProgressUpdate, items []string, opts ImportOpts) (*ImportResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: todo client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	limit := rate.Limit(opts.RateLimit)
	switch {
	case opts.RateLimit == 0:
		limit = rate.Limit(defaultRateLimit)
	case opts.RateLimit < 0:
		limit = rate.Inf
	}
	limiter := rate.NewLimiter(limit, opts.Burst)

	result := &ImportResult{
		Total:   len(items),
		Stored:  -1,
		Results: make([]ItemResult, 0, len(items)),
	}

	jobs := make(chan importJob)
	results := make(chan ItemResult, len(items))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go e.addWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		e.sendProgress(prog, startImportUpdate(len(items), opts.Workers))
		for i, item := range items {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- importJob{index: i, item: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Err == nil {
			result.Added++
			e.sendProgress(prog, itemAddedUpdate(completed, len(items), res))
		} else {
			result.Failed++
			if res.Retryable() {
				result.Retryable++
			}
			e.sendProgress(prog, itemFailedUpdate(completed, len(items), res))
		}
	}

	slices.SortFunc(result.Results, func(a, b ItemResult) int { return a.Index - b.Index })
	result.Skipped = result.Total - len(result.Results)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import cancelled after %d of %d items: %w", len(result.Results), result.Total, err)
	}

	if opts.Verify {
		todos, err := e.client.List(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to verify import: %w", err)
		}
		result.Stored = len(todos)
		e.sendProgress(prog, verifyUpdate(result.Stored))
	}

	return result, nil
}

// addWorker processes jobs from the channel until it closes.
func (e *Importer) addWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan importJob, results chan<- ItemResult) {
	defer wg.Done()

	for job := range jobs {
		results <- ItemResult{
			Index: job.index,
			Item:  job.item,
			Err:   e.client.Add(ctx, job.item),
		}
	}
}

// ParseItems reads one item per line. Blank lines and lines starting with # are skipped;
// surrounding whitespace is trimmed.
func ParseItems(r io.Reader) ([]string, error) {
	var items []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}
