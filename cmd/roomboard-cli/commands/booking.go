package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/faculty"
)

func bookCmd(app *AppContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "book <postID>",
		Short: "Book a room offered by another member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("book room", err)
			}
			session, err := app.session()
			if err != nil {
				return app.fail("book room", err)
			}
			post, err := app.Client.GetRoomPost(app.Ctx, session, id)
			if err != nil {
				return app.fail("book room", err)
			}

			var confirm faculty.Confirmer = app
			if yes {
				confirm = faculty.AlwaysConfirm
			}
			booker := faculty.NewBooker(app.Client, session, confirm, nil, app.Logger)
			booked, err := booker.Book(app.Ctx, post)
			if errors.Is(err, faculty.ErrDeclined) {
				app.printf("Booking cancelled.\n")
				return nil
			}
			if err != nil {
				return app.fail("book room", err)
			}
			app.printf("Booked Room %s on %s %s-%s (booking %d).\n", booked.Room, booked.Date, booked.StartTime, booked.EndTime, booked.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func bookedCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booked",
		Short: "Manage your booked rooms",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List rooms you have booked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.session()
			if err != nil {
				return app.fail("fetch booked rooms", err)
			}
			bookings, err := faculty.NewBooker(app.Client, session, nil, nil, app.Logger).MyBookings(app.Ctx)
			if err != nil {
				return app.fail("fetch booked rooms", err)
			}
			printBookedRooms(app.out, bookings)
			return nil
		},
	}, &cobra.Command{
		Use:   "show <id>",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("fetch booked room", err)
			}
			session, err := app.session()
			if err != nil {
				return app.fail("fetch booked room", err)
			}
			booked, err := app.Client.GetBookedRoom(app.Ctx, session, id)
			if err != nil {
				return app.fail("fetch booked room", err)
			}
			printBookedRooms(app.out, []client.BookedRoom{booked})
			return nil
		},
	}, &cobra.Command{
		Use:   "delete <id>",
		Short: "Cancel one of your bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("cancel booking", err)
			}
			session, err := app.session()
			if err != nil {
				return app.fail("cancel booking", err)
			}
			if err := faculty.NewBooker(app.Client, session, nil, nil, app.Logger).CancelBooking(app.Ctx, id); err != nil {
				return app.fail("cancel booking", err)
			}
			app.printf("Cancelled booking %d.\n", id)
			return nil
		},
	})
	return cmd
}
