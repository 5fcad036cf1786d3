package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService(t *testing.T) {
	t.Parallel()

	add := func(t *testing.T, svc *DashboardService, user, day, start string) DashboardEntry {
		t.Helper()
		entry, err := svc.AddEntry(context.Background(), AddDashboardEntryParams{
			Principal: Principal{Username: user},
			Input: DashboardEntryInput{
				Room: "101", Subject: "Algorithms", Date: "2024-05-01",
				StartTime: start, EndTime: "23:00", Day: day,
			},
		})
		require.NoError(t, err)
		return entry
	}

	t.Run("orders by weekday then time", func(t *testing.T) {
		t.Parallel()

		svc := NewDashboardService(newDashboardRepositoryStub(), fixedNow)
		add(t, svc, "alice", "friday", "09:00")
		add(t, svc, "alice", "Monday", "14:00")
		add(t, svc, "alice", "MONDAY", "08:00")
		add(t, svc, "alice", "Sunday", "07:00")
		add(t, svc, "bob", "Monday", "07:00")

		entries, err := svc.ListEntries(context.Background(), "alice", "")
		require.NoError(t, err)
		require.Len(t, entries, 4)

		got := make([]string, 0, len(entries))
		for _, entry := range entries {
			got = append(got, entry.Day+" "+entry.StartTime)
		}
		assert.Equal(t, []string{"Monday 08:00", "Monday 14:00", "Friday 09:00", "Sunday 07:00"}, got)

		monday, err := svc.ListEntries(context.Background(), "alice", "monday")
		require.NoError(t, err)
		assert.Len(t, monday, 2)
	})

	t.Run("rejects unknown weekdays", func(t *testing.T) {
		t.Parallel()

		svc := NewDashboardService(newDashboardRepositoryStub(), fixedNow)
		_, err := svc.AddEntry(context.Background(), AddDashboardEntryParams{
			Principal: Principal{Username: "alice"},
			Input:     DashboardEntryInput{Room: "101", Subject: "x", Date: "2024-05-01", StartTime: "09:00", EndTime: "10:00", Day: "Funday"},
		})
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "day must be a weekday name", vErr.FieldErrors["day"])

		_, err = svc.ListEntries(context.Background(), "alice", "Funday")
		assert.True(t, errors.As(err, &vErr))
	})

	t.Run("only the owner deletes", func(t *testing.T) {
		t.Parallel()

		svc := NewDashboardService(newDashboardRepositoryStub(), fixedNow)
		entry := add(t, svc, "alice", "Tuesday", "10:00")

		assert.ErrorIs(t, svc.DeleteEntry(context.Background(), Principal{Username: "bob"}, entry.ID), ErrUnauthorized)
		require.NoError(t, svc.DeleteEntry(context.Background(), Principal{Username: "alice"}, entry.ID))
		assert.ErrorIs(t, svc.DeleteEntry(context.Background(), Principal{Username: "alice"}, entry.ID), ErrNotFound)
	})
}
