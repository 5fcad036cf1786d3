package commands

import (
	"github.com/spf13/cobra"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/faculty"
)

func (app *AppContext) requestManager() (*faculty.RequestManager, error) {
	session, err := app.session()
	if err != nil {
		return nil, err
	}
	return faculty.NewRequestManager(app.Client, session, app.Logger), nil
}

func requestsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Ask colleagues for a room",
	}
	cmd.AddCommand(requestsListCmd(app), requestsMineCmd(app), requestsShowCmd(app), requestsCreateCmd(app), requestsUpdateCmd(app), requestsDeleteCmd(app))
	return cmd
}

func requestsListCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List room requests from other members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.requestManager()
			if err != nil {
				return app.fail("fetch room requests", err)
			}
			requests, err := manager.Others(app.Ctx)
			if err != nil {
				return app.fail("fetch room requests", err)
			}
			printRoomRequests(app.out, requests)
			return nil
		},
	}
}

func requestsMineCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own room requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.requestManager()
			if err != nil {
				return app.fail("fetch room requests", err)
			}
			requests, err := manager.Mine(app.Ctx)
			if err != nil {
				return app.fail("fetch room requests", err)
			}
			printRoomRequests(app.out, requests)
			return nil
		},
	}
}

func requestsCreateCmd(app *AppContext) *cobra.Command {
	var input client.RoomRequestInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request a room slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.requestManager()
			if err != nil {
				return app.fail("create room request", err)
			}
			request, err := manager.Create(app.Ctx, input)
			if err != nil {
				return app.fail("create room request", err)
			}
			app.printf("Created room request %d for %s.\n", request.ID, request.Date)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Date, "date", "", "Date (YYYY-MM-DD)")
	flags.StringVar(&input.StartTime, "start", "", "Start time (HH:MM)")
	flags.StringVar(&input.EndTime, "end", "", "End time (HH:MM)")
	flags.StringVar(&input.Description, "description", "", "What the room is for")
	flags.StringVar(&input.Location, "location", "", "Preferred building or campus")
	flags.IntVar(&input.Capacity, "capacity", 0, "Seats needed")
	flags.StringVar(&input.Resources, "resources", "", "Equipment needed")
	return cmd
}

func requestsShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one room request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("fetch room request", err)
			}
			session, err := app.session()
			if err != nil {
				return app.fail("fetch room request", err)
			}
			request, err := app.Client.GetRoomRequest(app.Ctx, session, id)
			if err != nil {
				return app.fail("fetch room request", err)
			}
			printRoomRequests(app.out, []client.RoomRequest{request})
			return nil
		},
	}
}

func requestsUpdateCmd(app *AppContext) *cobra.Command {
	var input client.RoomRequestInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change one of your room requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("update room request", err)
			}
			session, err := app.session()
			if err != nil {
				return app.fail("update room request", err)
			}
			current, err := app.Client.GetRoomRequest(app.Ctx, session, id)
			if err != nil {
				return app.fail("update room request", err)
			}

			merged := client.RoomRequestInput{
				Date:        current.Date,
				StartTime:   current.StartTime,
				EndTime:     current.EndTime,
				Description: current.Description,
				Location:    current.Location,
				Capacity:    current.Capacity,
				Resources:   current.Resources,
			}
			flags := cmd.Flags()
			overlay(flags.Changed("date"), &merged.Date, input.Date)
			overlay(flags.Changed("start"), &merged.StartTime, input.StartTime)
			overlay(flags.Changed("end"), &merged.EndTime, input.EndTime)
			overlay(flags.Changed("description"), &merged.Description, input.Description)
			overlay(flags.Changed("location"), &merged.Location, input.Location)
			overlay(flags.Changed("capacity"), &merged.Capacity, input.Capacity)
			overlay(flags.Changed("resources"), &merged.Resources, input.Resources)

			request, err := app.Client.UpdateRoomRequest(app.Ctx, session, id, merged)
			if err != nil {
				return app.fail("update room request", err)
			}
			app.printf("Updated room request %d.\n", request.ID)
			printRoomRequests(app.out, []client.RoomRequest{request})
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Date, "date", "", "Date (YYYY-MM-DD)")
	flags.StringVar(&input.StartTime, "start", "", "Start time (HH:MM)")
	flags.StringVar(&input.EndTime, "end", "", "End time (HH:MM)")
	flags.StringVar(&input.Description, "description", "", "What the room is for")
	flags.StringVar(&input.Location, "location", "", "Preferred building or campus")
	flags.IntVar(&input.Capacity, "capacity", 0, "Seats needed")
	flags.StringVar(&input.Resources, "resources", "", "Equipment needed")
	return cmd
}

func requestsDeleteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Withdraw one of your room requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("delete room request", err)
			}
			manager, err := app.requestManager()
			if err != nil {
				return app.fail("delete room request", err)
			}
			if err := manager.Delete(app.Ctx, id); err != nil {
				return app.fail("delete room request", err)
			}
			app.printf("Deleted room request %d.\n", id)
			return nil
		},
	}
}
