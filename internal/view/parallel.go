package view

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-seqview/internal/record"
)

// DetailRequest is one detail window with its translation window, in absolute coordinates.
type DetailRequest struct {
	WindowStart      int
	WindowEnd        int
	TranslationStart int
	TranslationEnd   int
}

// DetailResult holds the outcome of one DetailRequest.
type DetailResult struct {
	Seq     int
	Request DetailRequest
	View    *DetailView
	Err     error
}

type workItem struct {
	seq int
	req DetailRequest
}

// BuildDetailViews builds one detail view per request using a pool of workers and
// returns the results in request order. A failed request does not stop the others.
// If workers is 0, runtime.NumCPU() is used.
func (c *Compositor) BuildDetailViews(r *record.Record, reqs []DetailRequest, workers int) []DetailResult {
	items := make(chan workItem, len(reqs))
	for i, req := range reqs {
		items <- workItem{seq: i, req: req}
	}
	close(items)

	out := make([]DetailResult, 0, len(reqs))
	// The collector callback never fails.
	_ = orderedCollect(c.parallelBuild(r, items, workers), func(res DetailResult) error {
		out = append(out, res)
		return nil
	})
	return out
}

// parallelBuild builds detail views for work items using a pool of workers.
// Results are sent in arrival order, not sequence order.
func (c *Compositor) parallelBuild(r *record.Record, items <-chan workItem, workers int) <-chan DetailResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan DetailResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for n := 0; n < workers; n++ {
		go func() {
			defer wg.Done()
			for item := range items {
				v, err := c.BuildDetailView(r, item.req.WindowStart, item.req.WindowEnd,
					item.req.TranslationStart, item.req.TranslationEnd)
				results <- DetailResult{
					Seq:     item.seq,
					Request: item.req,
					View:    v,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// orderedCollect calls fn for each result in sequence-number order, buffering
// out-of-order results until the next expected one arrives.
func orderedCollect(results <-chan DetailResult, fn func(DetailResult) error) error {
	pending := make(map[int]DetailResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
