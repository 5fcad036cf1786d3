package commands

import (
	"github.com/spf13/cobra"

	"github.com/example/roomboard/internal/faculty"
)

func boardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show bookable rooms and open requests from other members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.session()
			if err != nil {
				return app.fail("load booking board", err)
			}
			board, err := faculty.NewBookingBoard(
				faculty.NewPostManager(app.Client, session, app.Logger),
				faculty.NewRequestManager(app.Client, session, app.Logger),
			).Load(app.Ctx)
			if err != nil {
				return app.fail("load booking board", err)
			}
			app.printf("Rooms on offer\n")
			printRoomPosts(app.out, board.Posts)
			app.printf("\nRoom requests\n")
			printRoomRequests(app.out, board.Requests)
			return nil
		},
	}
}
