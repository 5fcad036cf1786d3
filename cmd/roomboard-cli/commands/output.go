package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/example/roomboard/internal/client"
)

func newTable(w io.Writer, header string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	return tw
}

func printRoomPosts(w io.Writer, posts []client.RoomPost) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No room posts.")
		return
	}
	tw := newTable(w, "ID\tROOM\tDATE\tTIME\tLOCATION\tCAPACITY\tPOSTED BY\tDESCRIPTION")
	for _, p := range posts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s-%s\t%s\t%d\t%s\t%s\n",
			p.ID, p.Room, p.Date, p.StartTime, p.EndTime, p.Location, p.Capacity, p.PostedBy, p.Description)
	}
	tw.Flush()
}

func printRoomRequests(w io.Writer, requests []client.RoomRequest) {
	if len(requests) == 0 {
		fmt.Fprintln(w, "No room requests.")
		return
	}
	tw := newTable(w, "ID\tDATE\tTIME\tLOCATION\tCAPACITY\tREQUESTED BY\tDESCRIPTION")
	for _, r := range requests {
		fmt.Fprintf(tw, "%d\t%s\t%s-%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Date, r.StartTime, r.EndTime, r.Location, r.Capacity, r.RequestedBy, r.Description)
	}
	tw.Flush()
}

func printBookedRooms(w io.Writer, bookings []client.BookedRoom) {
	if len(bookings) == 0 {
		fmt.Fprintln(w, "No booked rooms.")
		return
	}
	tw := newTable(w, "ID\tPOST\tROOM\tDATE\tTIME\tLOCATION\tPOSTED BY")
	for _, b := range bookings {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s-%s\t%s\t%s\n",
			b.ID, b.RoomPostID, b.Room, b.Date, b.StartTime, b.EndTime, b.Location, b.PostedBy)
	}
	tw.Flush()
}

func printDashboardEntries(w io.Writer, entries []client.DashboardEntry) {
	tw := newTable(w, "ID\tDAY\tTIME\tROOM\tSUBJECT\tDATE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s-%s\t%s\t%s\t%s\n",
			e.ID, e.Day, e.StartTime, e.EndTime, e.Room, e.Subject, e.Date)
	}
	tw.Flush()
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, &client.ValidationError{FieldErrors: map[string]string{"id": "must be a positive integer"}}
	}
	return id, nil
}

// overlay replaces *dst with value when the corresponding flag was set.
func overlay[T any](changed bool, dst *T, value T) {
	if changed {
		*dst = value
	}
}
