package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/modguard/modguard/internal/domain"
)

// BatchService validates many modules with bounded concurrency and
// partial-failure isolation.
type BatchService struct {
	validator  *ValidateService
	discoverer domain.ModuleDiscoverer
}

func NewBatchService(validator *ValidateService, discoverer domain.ModuleDiscoverer) *BatchService {
	return &BatchService{validator: validator, discoverer: discoverer}
}

// batchItem travels from a validation worker to the single aggregator
// goroutine; the accumulator is only ever touched there.
type batchItem struct {
	path   string
	report *domain.ValidationReport
	err    error
}

// ValidateBatch validates every path and returns a BatchResult. Paths are
// processed in consecutive chunks of MaxParallel: validations within a
// chunk run concurrently, and chunk N+1 never starts before chunk N has
// fully settled. With ContinueOnError false, the first failure is returned
// as a *domain.BatchValidationError once its chunk settles; sibling
// validations already running are not cancelled.
func (s *BatchService) ValidateBatch(ctx context.Context, paths []string, opts domain.BatchOptions) (*domain.BatchResult, error) {
	start := time.Now()

	result := &domain.BatchResult{
		OperationID: uuid.NewString(),
		TotalItems:  len(paths),
	}

	items := make(chan batchItem)
	done := make(chan struct{})

	// Single aggregator goroutine: the only writer of the accumulator and
	// the only caller of the progress/item callbacks.
	go func() {
		defer close(done)
		completed := 0
		for item := range items {
			completed++
			if item.err != nil {
				result.Failures = append(result.Failures, domain.BatchFailure{
					ModulePath: item.path,
					Error:      item.err.Error(),
				})
			} else {
				result.Successes = append(result.Successes, domain.BatchSuccess{
					ModulePath: item.path,
					Report:     item.report,
				})
				if opts.OnItem != nil {
					opts.OnItem(item.path, item.report)
				}
			}
			if opts.OnProgress != nil {
				opts.OnProgress(domain.Progress{
					Total:      len(paths),
					Completed:  completed,
					Failed:     len(result.Failures),
					Percentage: float64(completed) / float64(len(paths)) * 100,
				})
			}
		}
	}()

	var failFastErr error
	chunkSize := opts.EffectiveParallel()

chunks:
	for offset := 0; offset < len(paths); offset += chunkSize {
		end := offset + chunkSize
		if end > len(paths) {
			end = len(paths)
		}

		if err := ctx.Err(); err != nil {
			failFastErr = err
			break
		}

		// Plain errgroup, no shared context: siblings in a chunk run to
		// completion even when one fails.
		var g errgroup.Group
		for _, path := range paths[offset:end] {
			g.Go(func() error {
				report, err := s.validator.ValidateModule(path, opts.Validation)
				items <- batchItem{path: path, report: report, err: err}
				if err != nil && !opts.ContinueOnError {
					return &domain.BatchValidationError{ModulePath: path, Err: err}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			failFastErr = err
			break chunks
		}
	}

	close(items)
	<-done

	if failFastErr != nil {
		// A truncated run reports only the items that settled, keeping
		// TotalItems == len(Successes)+len(Failures).
		result.TotalItems = len(result.Successes) + len(result.Failures)
	}

	result.Metrics = domain.BuildBatchMetrics(result, time.Since(start))

	if failFastErr != nil {
		return result, failFastErr
	}
	return result, nil
}

// ValidateEcosystem discovers every manifest-bearing directory under root
// and validates them as one batch. Returns domain.ErrNoModulesFound
// (wrapped) when discovery yields nothing.
func (s *BatchService) ValidateEcosystem(ctx context.Context, root string, opts domain.BatchOptions) (*domain.BatchResult, error) {
	paths, err := s.discoverer.DiscoverModulePaths(root)
	if err != nil {
		return nil, fmt.Errorf("discovering modules under %s: %w", root, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", root, domain.ErrNoModulesFound)
	}
	return s.ValidateBatch(ctx, paths, opts)
}
