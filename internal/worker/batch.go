package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// Validator validates one request. Implemented by the pipeline; declared
// here so the batch processor does not depend on it.
type Validator interface {
	Validate(ctx context.Context, req model.Request) (*model.ValidationResult, string, error)
}

// ValidationJob is one batch validation unit
type ValidationJob struct {
	Request   model.Request
	Validator Validator
}

// Execute runs the validation job
func (j *ValidationJob) Execute(ctx context.Context) Result {
	result, interactionID, err := j.Validator.Validate(ctx, j.Request)
	return &ValidationOutcome{
		Request:       j.Request,
		Result:        result,
		InteractionID: interactionID,
		Error:         err,
	}
}

// ValidationOutcome is the result of one batch validation
type ValidationOutcome struct {
	Request       model.Request
	Result        *model.ValidationResult
	InteractionID string
	Error         error
}

// GetError returns the error from the validation outcome
func (r *ValidationOutcome) GetError() error {
	return r.Error
}

// BatchProcessor validates multiple requests concurrently
type BatchProcessor struct {
	validator   Validator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(validator Validator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		validator:   validator,
		concurrency: concurrency,
	}
}

// Process validates every request using the worker pool and returns the
// outcomes in completion order
func (b *BatchProcessor) Process(ctx context.Context, requests []model.Request) []*ValidationOutcome {
	if len(requests) == 0 {
		return []*ValidationOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, req := range requests {
		if ctx.Err() != nil {
			pool.Shutdown()
			return []*ValidationOutcome{}
		}
		pool.Submit(&ValidationJob{Request: req, Validator: b.validator})
	}

	results := pool.Wait()

	outcomes := make([]*ValidationOutcome, 0, len(results))
	for _, r := range results {
		if outcome, ok := r.(*ValidationOutcome); ok {
			outcomes = append(outcomes, outcome)
		}
	}

	return outcomes
}

// ReadRequestsFile reads validation requests from a JSONL file: one JSON
// request object per line, blank lines and #-comments skipped
func ReadRequestsFile(path string) ([]model.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening requests file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var requests []model.Request
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var req model.Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return nil, fmt.Errorf("parsing request on line %d: %w", lineNo, err)
		}
		if req.ResponseText == "" {
			return nil, fmt.Errorf("request on line %d has no response_text", lineNo)
		}
		requests = append(requests, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requests file: %w", err)
	}

	return requests, nil
}
