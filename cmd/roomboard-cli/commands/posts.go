package commands

import (
	"github.com/spf13/cobra"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/faculty"
)

func (app *AppContext) postManager() (*faculty.PostManager, error) {
	session, err := app.session()
	if err != nil {
		return nil, err
	}
	return faculty.NewPostManager(app.Client, session, app.Logger), nil
}

func postsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Offer rooms to colleagues",
	}
	cmd.AddCommand(postsListCmd(app), postsMineCmd(app), postsCreateCmd(app), postsUpdateCmd(app), postsDeleteCmd(app))
	return cmd
}

func postsListCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rooms offered by other members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.postManager()
			if err != nil {
				return app.fail("fetch room posts", err)
			}
			posts, err := manager.Others(app.Ctx)
			if err != nil {
				return app.fail("fetch room posts", err)
			}
			printRoomPosts(app.out, posts)
			return nil
		},
	}
}

func postsMineCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own room posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.postManager()
			if err != nil {
				return app.fail("fetch room posts", err)
			}
			posts, err := manager.Mine(app.Ctx)
			if err != nil {
				return app.fail("fetch room posts", err)
			}
			printRoomPosts(app.out, posts)
			return nil
		},
	}
}

func postsCreateCmd(app *AppContext) *cobra.Command {
	var input client.RoomPostInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Offer a room slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.postManager()
			if err != nil {
				return app.fail("create room post", err)
			}
			post, err := manager.Create(app.Ctx, input)
			if err != nil {
				return app.fail("create room post", err)
			}
			app.printf("Created room post %d for Room %s on %s.\n", post.ID, post.Room, post.Date)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Room, "room", "", "Room name")
	flags.StringVar(&input.Date, "date", "", "Date (YYYY-MM-DD)")
	flags.StringVar(&input.StartTime, "start", "", "Start time (HH:MM)")
	flags.StringVar(&input.EndTime, "end", "", "End time (HH:MM)")
	flags.StringVar(&input.Description, "description", "", "What the room offers")
	flags.StringVar(&input.Location, "location", "", "Building or campus")
	flags.IntVar(&input.Capacity, "capacity", 0, "Number of seats")
	flags.StringVar(&input.Resources, "resources", "", "Equipment available")
	return cmd
}

// postsUpdateCmd starts from the stored post and overlays only the flags given.
func postsUpdateCmd(app *AppContext) *cobra.Command {
	var input client.RoomPostInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change one of your room posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("update room post", err)
			}
			session, err := app.session()
			if err != nil {
				return app.fail("update room post", err)
			}
			current, err := app.Client.GetRoomPost(app.Ctx, session, id)
			if err != nil {
				return app.fail("update room post", err)
			}

			merged := client.RoomPostInput{
				Room:        current.Room,
				Date:        current.Date,
				StartTime:   current.StartTime,
				EndTime:     current.EndTime,
				Description: current.Description,
				Location:    current.Location,
				Capacity:    current.Capacity,
				Resources:   current.Resources,
			}
			flags := cmd.Flags()
			overlay(flags.Changed("room"), &merged.Room, input.Room)
			overlay(flags.Changed("date"), &merged.Date, input.Date)
			overlay(flags.Changed("start"), &merged.StartTime, input.StartTime)
			overlay(flags.Changed("end"), &merged.EndTime, input.EndTime)
			overlay(flags.Changed("description"), &merged.Description, input.Description)
			overlay(flags.Changed("location"), &merged.Location, input.Location)
			overlay(flags.Changed("capacity"), &merged.Capacity, input.Capacity)
			overlay(flags.Changed("resources"), &merged.Resources, input.Resources)

			post, err := app.Client.UpdateRoomPost(app.Ctx, session, id, merged)
			if err != nil {
				return app.fail("update room post", err)
			}
			app.printf("Updated room post %d.\n", post.ID)
			printRoomPosts(app.out, []client.RoomPost{post})
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Room, "room", "", "Room name")
	flags.StringVar(&input.Date, "date", "", "Date (YYYY-MM-DD)")
	flags.StringVar(&input.StartTime, "start", "", "Start time (HH:MM)")
	flags.StringVar(&input.EndTime, "end", "", "End time (HH:MM)")
	flags.StringVar(&input.Description, "description", "", "What the room offers")
	flags.StringVar(&input.Location, "location", "", "Building or campus")
	flags.IntVar(&input.Capacity, "capacity", 0, "Number of seats")
	flags.StringVar(&input.Resources, "resources", "", "Equipment available")
	return cmd
}

func postsDeleteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Withdraw one of your room posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("delete room post", err)
			}
			manager, err := app.postManager()
			if err != nil {
				return app.fail("delete room post", err)
			}
			if err := manager.Delete(app.Ctx, id); err != nil {
				return app.fail("delete room post", err)
			}
			app.printf("Deleted room post %d.\n", id)
			return nil
		},
	}
}
