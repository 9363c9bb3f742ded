package integration

import (
	"context"
	"testing"
	"time"

	"github.com/javiermolinar/timetable/internal/session"
)

func TestSessionsStoredInUTC(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	kst := time.FixedZone("KST", 9*60*60)
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, kst)
	tsk := createTask(t, repo, day, "Vocabulary cards", "english")

	m := newMachine(repo, time.Now, 0)
	openDay(t, m, day)
	if err := book(t, m, tsk.ID, session.ColorPink, "23:30", "00:10"); err != nil {
		t.Fatalf("book: %v", err)
	}

	booked := m.Sessions()
	if len(booked) != 1 {
		t.Fatalf("sessions = %d, want 1", len(booked))
	}

	stored, err := repo.GetSession(ctx, booked[0].ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	wantStart := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 1, 15, 15, 20, 0, 0, time.UTC)
	if !stored.StartTime.Equal(wantStart) || !stored.EndTime.Equal(wantEnd) {
		t.Errorf("stored interval = %v to %v, want %v to %v", stored.StartTime, stored.EndTime, wantStart, wantEnd)
	}

	// A fresh load in the same zone maps the instants back to the same cells.
	reloaded := newMachine(repo, time.Now, 0)
	openDay(t, reloaded, day)
	got := reloaded.Sessions()
	if len(got) != 1 {
		t.Fatalf("reloaded sessions = %d, want 1", len(got))
	}
	if got[0].StartSlot != "23:30" || got[0].EndSlot != "00:20" {
		t.Errorf("reloaded slots = %s-%s, want 23:30-00:20", got[0].StartSlot, got[0].EndSlot)
	}

	// The same instants seen from UTC sit mid-afternoon on the UTC grid.
	utc := newMachine(repo, time.Now, 0)
	openDay(t, utc, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	got = utc.Sessions()
	if len(got) != 1 || got[0].StartSlot != "14:30" || got[0].EndSlot != "15:20" {
		t.Errorf("UTC view = %+v, want one session 14:30-15:20", got)
	}
}
