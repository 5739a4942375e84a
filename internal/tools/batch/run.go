package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

// ItemFunc processes the item at index i.
type ItemFunc[T any] func(ctx context.Context, i int, item T) Result

// Run executes fn for every item concurrently and returns one result per item
// in input order. limit caps the number of in-flight items; zero or a negative
// value means no cap. A panicking item yields a failed result for that item.
func Run[T any](ctx context.Context, in Input[T], limit int, fn ItemFunc[T]) []Result {
	results := make([]Result, len(in.Items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range in.Items {
		g.Go(func() error {
			res, err := dispatch.RecoverWithResult(func() (Result, error) {
				return fn(ctx, i, item), nil
			})
			if err != nil {
				res = Failure(fmt.Errorf("item %d: %w", i, err))
			}
			results[i] = res
			return nil
		})
	}

	// Items never return errors; failures live in their Result.
	_ = g.Wait()

	return results
}
