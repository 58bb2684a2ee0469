// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package sigbpmn

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/vine-io/pkg/xname"
	log "github.com/vine-io/vine/lib/logger"
	"go.uber.org/atomic"
)

// Summary aggregates one directory conversion run.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Skipped   int
	Failed    int

	// Results holds converted and skipped files, sorted by input path.
	Results []*Result

	// Failures holds the files that produced an error.
	Failures []Failure

	Elapsed time.Duration
}

type Failure struct {
	Input string
	Err   error
}

// ConvertDir converts every .json file directly under in, writing the
// outputs to out. An empty out writes next to the input directory with
// a _bpmn suffix. Files are converted concurrently on a worker pool.
func (c *Converter) ConvertDir(ctx context.Context, in, out string) (*Summary, error) {
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, err
	}
	if out == "" {
		out = strings.TrimRight(in, "/\\") + "_bpmn"
	}
	if err = os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(c.opts.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	summary := &Summary{RunID: "RUN_" + xname.Gen6()}
	start := time.Now()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		succeeded atomic.Int32
		skipped   atomic.Int32
		failed    atomic.Int32
	)

	fail := func(input string, err error) {
		failed.Inc()
		mu.Lock()
		summary.Failures = append(summary.Failures, Failure{Input: input, Err: err})
		mu.Unlock()
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		src := filepath.Join(in, entry.Name())
		dst := filepath.Join(out, OutputPath(entry.Name(), c.opts.OutputSuffix))

		summary.Total++
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				fail(src, ctx.Err())
				return
			}
			res, err := c.ConvertFile(src, dst)
			if err != nil {
				fail(src, err)
				return
			}
			if res.Skipped {
				skipped.Inc()
			} else {
				succeeded.Inc()
			}
			mu.Lock()
			summary.Results = append(summary.Results, res)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			fail(src, err)
		}
	}
	wg.Wait()

	summary.Succeeded = int(succeeded.Load())
	summary.Skipped = int(skipped.Load())
	summary.Failed = int(failed.Load())
	summary.Elapsed = time.Since(start)

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Input < summary.Results[j].Input
	})
	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].Input < summary.Failures[j].Input
	})

	log.Infof("run %s: %d files, %d converted, %d skipped, %d failed in %s",
		summary.RunID, summary.Total, summary.Succeeded, summary.Skipped, summary.Failed, summary.Elapsed)
	return summary, nil
}
