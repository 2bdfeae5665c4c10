package recurly

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/recurly-client/internal/constants"
)

// ResolveAll resolves links in parallel, running at most limit fetches at a
// time. A non-positive limit uses the default concurrency. Links that share a
// *Link value are fetched once. The first error cancels the remaining fetches
// and is returned.
func ResolveAll[T any](ctx context.Context, limit int, links ...*Link[T]) error {
	if limit <= 0 {
		limit = constants.DefaultConcurrencyLimit
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	seen := make(map[*Link[T]]struct{}, len(links))

	for _, link := range links {
		if link == nil {
			continue
		}

		if _, dup := seen[link]; dup {
			continue
		}

		seen[link] = struct{}{}

		g.Go(func() error {
			_, err := link.Get(gCtx)

			return err
		})
	}

	return g.Wait()
}
