// Package batch submits large item sets as chunked bulk tasks while bounding the
// number of tasks outstanding on the server.
package batch

import (
	"context"
	"log/slog"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
)

const (
	DefaultChunkSize   = 100
	DefaultMaxInFlight = 10
)

// SubmitFunc submits one chunk and returns the uuid of the task created for it.
type SubmitFunc[T any] func(ctx context.Context, chunk []T) (string, error)

// PollFunc drives one submitted task to completion.
type PollFunc func(ctx context.Context, taskUUID string) (*domain.TaskResult, error)

// Result is the outcome of one chunk.
type Result[T any] struct {
	Index    int
	Items    []T
	TaskUUID string
	Task     *domain.TaskResult
	Err      error
}

// Failed reports whether the chunk did not complete with a DONE task.
func (r Result[T]) Failed() bool {
	return r.Err != nil || !r.Task.Succeeded()
}

// Config bounds chunking and pipelining.
type Config struct {
	ChunkSize   int
	MaxInFlight int
}

// Orchestrator pipelines chunk submission with polling of earlier chunks.
type Orchestrator[T any] struct {
	chunkSize   int
	maxInFlight int
	logger      *slog.Logger
}

// NewOrchestrator creates an orchestrator. Non-positive sizes fall back to the defaults.
func NewOrchestrator[T any](cfg Config, logger *slog.Logger) *Orchestrator[T] {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = DefaultMaxInFlight
	}
	return &Orchestrator[T]{
		chunkSize:   cfg.ChunkSize,
		maxInFlight: cfg.MaxInFlight,
		logger:      logger,
	}
}

// Run submits items chunk by chunk. Once MaxInFlight tasks are outstanding, the oldest
// is polled before the next chunk is submitted. Chunks that fail to obtain a task uuid
// are recorded as failed without polling. Results are ordered by chunk index.
//
// The returned error is non-nil only when the run was aborted by a cancelled context
// or an auth-layer failure; unfinished chunks then carry that error.
func (o *Orchestrator[T]) Run(ctx context.Context, items []T, submit SubmitFunc[T], poll PollFunc) ([]Result[T], error) {
	chunks := Chunk(items, o.chunkSize)
	results := make([]Result[T], len(chunks))
	for i, chunk := range chunks {
		results[i] = Result[T]{Index: i, Items: chunk}
	}

	o.logger.InfoContext(ctx, "Starting batch",
		"items", len(items),
		"chunks", len(chunks),
		"max_in_flight", o.maxInFlight)

	inFlight := make([]int, 0, o.maxInFlight)

	for i, chunk := range chunks {
		if len(inFlight) >= o.maxInFlight {
			oldest := inFlight[0]
			inFlight = inFlight[1:]
			if err := o.await(ctx, &results[oldest], poll); err != nil {
				return abort(results, inFlight, i, err)
			}
		}

		taskUUID, err := submit(ctx, chunk)
		if err != nil {
			results[i].Err = err
			o.logger.WarnContext(ctx, "Chunk submission failed", "chunk", i, "items", len(chunk), "error", err)
			if aborts(ctx, err) {
				return abort(results, inFlight, i+1, err)
			}
			continue
		}

		results[i].TaskUUID = taskUUID
		inFlight = append(inFlight, i)
		o.logger.DebugContext(ctx, "Chunk submitted", "chunk", i, "task_uuid", taskUUID)
	}

	for len(inFlight) > 0 {
		oldest := inFlight[0]
		inFlight = inFlight[1:]
		if err := o.await(ctx, &results[oldest], poll); err != nil {
			return abort(results, inFlight, len(chunks), err)
		}
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	o.logger.InfoContext(ctx, "Batch completed", "chunks", len(chunks), "failed", failed)

	return results, nil
}

// await polls one chunk's task. It returns an error only when the run must abort.
func (o *Orchestrator[T]) await(ctx context.Context, result *Result[T], poll PollFunc) error {
	task, err := poll(ctx, result.TaskUUID)
	result.Task = task
	if err != nil {
		result.Err = err
		o.logger.WarnContext(ctx, "Chunk task failed", "chunk", result.Index, "task_uuid", result.TaskUUID, "error", err)
		if aborts(ctx, err) {
			return err
		}
	}
	return nil
}

func aborts(ctx context.Context, err error) bool {
	return ctx.Err() != nil || apperrors.IsFatalAuth(err)
}

// abort marks every still-pending chunk with err.
func abort[T any](results []Result[T], inFlight []int, next int, err error) ([]Result[T], error) {
	for _, idx := range inFlight {
		results[idx].Err = err
	}
	for i := next; i < len(results); i++ {
		if results[i].Err == nil {
			results[i].Err = err
		}
	}
	return results, err
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Errors joins the errors of failed chunks.
func Errors[T any](results []Result[T]) error {
	errs := make([]error, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return apperrors.Join(errs...)
}
