package commands

import (
	"github.com/spf13/cobra"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/faculty"
)

func (app *AppContext) dashboardManager() (*faculty.DashboardManager, error) {
	session, err := app.session()
	if err != nil {
		return nil, err
	}
	return faculty.NewDashboardManager(app.Client, session, nil, app.Logger), nil
}

func dashboardCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Keep your weekly class schedule",
	}
	cmd.AddCommand(dashboardAddCmd(app), dashboardListCmd(app), dashboardDeleteCmd(app))
	return cmd
}

func dashboardAddCmd(app *AppContext) *cobra.Command {
	var input client.DashboardEntryInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a class to your week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.dashboardManager()
			if err != nil {
				return app.fail("add class", err)
			}
			entry, err := manager.Add(app.Ctx, input)
			if err != nil {
				return app.fail("add class", err)
			}
			app.printf("Added %s in Room %s on %s %s-%s (entry %d).\n", entry.Subject, entry.Room, entry.Day, entry.StartTime, entry.EndTime, entry.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Room, "room", "", "Room name")
	flags.StringVar(&input.Subject, "subject", "", "Subject taught")
	flags.StringVar(&input.Date, "date", "", "First class date (YYYY-MM-DD)")
	flags.StringVar(&input.StartTime, "start", "", "Start time (HH:MM)")
	flags.StringVar(&input.EndTime, "end", "", "End time (HH:MM)")
	flags.StringVar(&input.Day, "day", "", "Weekday (Monday..Sunday)")
	return cmd
}

func dashboardListCmd(app *AppContext) *cobra.Command {
	var (
		day   string
		today bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show your classes, optionally for one weekday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := app.dashboardManager()
			if err != nil {
				return app.fail("fetch classes", err)
			}
			entries, err := manager.List(app.Ctx)
			if err != nil {
				return app.fail("fetch classes", err)
			}

			if day == "" && !today {
				if len(entries) == 0 {
					app.printf("No classes scheduled.\n")
					return nil
				}
				printDashboardEntries(app.out, entries)
				return nil
			}

			var schedule faculty.DaySchedule
			if today {
				schedule, err = manager.Today()
			} else {
				schedule, err = manager.ForDay(day)
			}
			if err != nil {
				return app.fail("fetch classes", err)
			}
			if schedule.Empty() {
				app.printf("No classes on %s.\n", schedule.Day)
				return nil
			}
			app.printf("%s: %d class(es)\n", schedule.Day, schedule.Count)
			printDashboardEntries(app.out, schedule.Entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only show this weekday")
	cmd.Flags().BoolVar(&today, "today", false, "Only show today's classes")
	cmd.MarkFlagsMutuallyExclusive("day", "today")
	return cmd
}

func dashboardDeleteCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a class from your week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return app.fail("delete class", err)
			}
			manager, err := app.dashboardManager()
			if err != nil {
				return app.fail("delete class", err)
			}
			if err := manager.Delete(app.Ctx, id); err != nil {
				return app.fail("delete class", err)
			}
			app.printf("Deleted entry %d.\n", id)
			return nil
		},
	}
}
