package posts

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-posts/pkg/interfaces"
)

type loadFunc func(context.Context, interfaces.PostID) (*interfaces.FullPost, error)

// flightGroup collapses concurrent loads of the same id into one read and
// render. Results are never kept once the load finishes, and every caller
// receives its own copy.
type flightGroup struct {
	group singleflight.Group
}

func (g *flightGroup) load(ctx context.Context, id interfaces.PostID, fn loadFunc) (*interfaces.FullPost, error) {
	// The shared load must outlive any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan(string(id), func() (any, error) {
		return fn(shared, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*interfaces.FullPost).Clone(), nil
	}
}
