package faculty

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/example/roomboard/internal/client"
)

// Board is the booking view: open posts and requests from other members.
type Board struct {
	Posts    []client.RoomPost
	Requests []client.RoomRequest
}

// BookingBoard loads both halves of the booking view together.
type BookingBoard struct {
	posts    *PostManager
	requests *RequestManager
}

// NewBookingBoard combines the two managers. Both must share one session.
func NewBookingBoard(posts *PostManager, requests *RequestManager) *BookingBoard {
	return &BookingBoard{posts: posts, requests: requests}
}

// Load fetches posts and requests concurrently and returns once both finish.
// The session user's own rows are excluded from both lists.
func (b *BookingBoard) Load(ctx context.Context) (Board, error) {
	var board Board
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := b.posts.Others(gctx)
		board.Posts = posts
		return err
	})
	g.Go(func() error {
		requests, err := b.requests.Others(gctx)
		board.Requests = requests
		return err
	})
	if err := g.Wait(); err != nil {
		return Board{}, err
	}
	return board, nil
}
