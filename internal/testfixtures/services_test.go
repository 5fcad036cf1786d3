package testfixtures

import (
	"context"
	"testing"

	"github.com/example/roomboard/internal/application"
)

type capturingPostRepo struct {
	created application.RoomPost
}

func (c *capturingPostRepo) CreateRoomPost(ctx context.Context, post application.RoomPost) (application.RoomPost, error) {
	post.ID = 7
	c.created = post
	return post, nil
}

func (c *capturingPostRepo) GetRoomPost(ctx context.Context, id int64) (application.RoomPost, error) {
	return application.RoomPost{}, application.ErrNotFound
}

func (c *capturingPostRepo) UpdateRoomPost(ctx context.Context, post application.RoomPost) (application.RoomPost, error) {
	return post, nil
}

func (c *capturingPostRepo) DeleteRoomPost(ctx context.Context, id int64) error {
	return nil
}

func (c *capturingPostRepo) ListRoomPosts(ctx context.Context, postedBy string) ([]application.RoomPost, error) {
	return nil, nil
}

func TestServiceFactoryNewRoomPostService(t *testing.T) {
	factory := NewServiceFactory()
	repo := &capturingPostRepo{}

	svc := factory.NewRoomPostService(repo)
	principal := application.Principal{Username: "alice"}

	post, err := svc.CreateRoomPost(context.Background(), application.CreateRoomPostParams{
		Principal: principal,
		Input:     NewSlotFixture().RoomPostInput(),
	})
	if err != nil {
		t.Fatalf("CreateRoomPost returned error: %v", err)
	}

	if post.ID != 7 || repo.created.PostedBy != "alice" {
		t.Fatalf("unexpected post: %+v", post)
	}
	if !post.CreatedAt.Equal(factory.Clock.Current()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Current(), post.CreatedAt)
	}
}

func TestPlainHasherRoundTrip(t *testing.T) {
	hash, err := PlainHasher("secret")
	if err != nil {
		t.Fatalf("PlainHasher returned error: %v", err)
	}
	if err := PlainVerifier(hash, "secret"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := PlainVerifier(hash, "other"); err != application.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
