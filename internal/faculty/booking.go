package faculty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/roomboard/internal/client"
)

// ErrDeclined is returned when the user does not confirm a booking.
var ErrDeclined = errors.New("faculty: booking declined")

// BookingAPI is the slice of the REST client Booker needs.
type BookingAPI interface {
	BookRoomPost(ctx context.Context, session *client.Session, postID int64) (client.BookedRoom, error)
	ListBookedRoomsByUser(ctx context.Context, session *client.Session, username string) ([]client.BookedRoom, error)
	CancelBooking(ctx context.Context, session *client.Session, id int64) error
}

// Confirmer asks the user to approve an action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Booker claims other members' room posts.
type Booker struct {
	api     BookingAPI
	session *client.Session
	confirm Confirmer
	posts   *PostManager
	logger  *slog.Logger
}

// NewBooker binds a Booker to session. posts may be nil; when set, booked posts
// are dropped from its cached lists.
func NewBooker(api BookingAPI, session *client.Session, confirm Confirmer, posts *PostManager, logger *slog.Logger) *Booker {
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	return &Booker{api: api, session: session, confirm: confirm, posts: posts, logger: defaultLogger(logger)}
}

// BookingPrompt is the confirmation question shown before booking post.
func BookingPrompt(post client.RoomPost) string {
	return fmt.Sprintf("Are you sure you want to book Room %s on %s?", post.Room, post.Date)
}

// Book confirms with the user and then claims post in a single server call.
// Nothing is sent when the user declines.
func (b *Booker) Book(ctx context.Context, post client.RoomPost) (client.BookedRoom, error) {
	if err := requireSession(b.session); err != nil {
		return client.BookedRoom{}, err
	}
	logger := managerLogger(ctx, b.logger, "Booker", "Book", "room_post_id", post.ID)

	if post.PostedBy == b.session.Username {
		return client.BookedRoom{}, &client.ValidationError{FieldErrors: map[string]string{"roomPostId": "you cannot book your own room post"}}
	}

	ok, err := b.confirm.Confirm(ctx, BookingPrompt(post))
	if err != nil {
		return client.BookedRoom{}, fmt.Errorf("confirm booking: %w", err)
	}
	if !ok {
		logger.DebugContext(ctx, "booking declined")
		return client.BookedRoom{}, ErrDeclined
	}

	booked, err := b.api.BookRoomPost(ctx, b.session, post.ID)
	if err != nil {
		logger.DebugContext(ctx, "booking failed", "error", err)
		return client.BookedRoom{}, err
	}
	if b.posts != nil {
		b.posts.forget(post.ID)
	}
	logger.DebugContext(ctx, "room booked", "booked_room_id", booked.ID)
	return booked, nil
}

// MyBookings returns the session user's bookings.
func (b *Booker) MyBookings(ctx context.Context) ([]client.BookedRoom, error) {
	if err := requireSession(b.session); err != nil {
		return nil, err
	}
	return b.api.ListBookedRoomsByUser(ctx, b.session, b.session.Username)
}

// CancelBooking deletes one of the session user's bookings.
func (b *Booker) CancelBooking(ctx context.Context, id int64) error {
	if err := requireSession(b.session); err != nil {
		return err
	}
	if err := b.api.CancelBooking(ctx, b.session, id); err != nil {
		managerLogger(ctx, b.logger, "Booker", "CancelBooking", "booked_room_id", id).DebugContext(ctx, "cancel booking failed", "error", err)
		return err
	}
	return nil
}
