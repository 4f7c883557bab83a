package service

import (
	"testing"
	"time"

	"github.com/radioclub/internal/db"
)

func TestActivitiesIndexGroupsByType(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	pages := NewPageService(db.DB)
	home := mustHome(t, pages)
	index := mustAddPage(t, pages, home.ID, PageInput{Type: PageTypeActivitiesIndex, Title: "Actividades", Live: true})

	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Asamblea", DateFrom: day(2025, 1, 10), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Field Day", DateFrom: day(2025, 6, 7), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Borrador", DateFrom: day(2025, 7, 1)})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeContest, Title: "Concurso Vigo", DateFrom: day(2025, 3, 1), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeDiploma, Title: "Diploma Cíes", Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeDiploma, Title: "Diploma Faros", Live: true})

	svc := NewActivitiesService(db.DB)
	result, err := svc.Index(index)
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if got := titles(result.Events); len(got) != 2 || got[0] != "Field Day" || got[1] != "Asamblea" {
		t.Fatalf("unexpected events: %v", got)
	}
	if got := titles(result.Contests); len(got) != 1 || got[0] != "Concurso Vigo" {
		t.Fatalf("unexpected contests: %v", got)
	}
	if got := titles(result.Diplomas); len(got) != 2 || got[0] != "Diploma Cíes" || got[1] != "Diploma Faros" {
		t.Fatalf("unexpected diplomas: %v", got)
	}
}

func TestActivitiesUpcoming(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	pages := NewPageService(db.DB)
	home := mustHome(t, pages)
	index := mustAddPage(t, pages, home.ID, PageInput{Type: PageTypeActivitiesIndex, Title: "Actividades", Live: true})

	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Pasado", DateFrom: day(2025, 5, 31), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Hoy", DateFrom: day(2025, 6, 1), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Lejano", DateFrom: day(2025, 12, 1), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Pronto", DateFrom: day(2025, 6, 15), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Después", DateFrom: day(2025, 9, 1), Live: true})

	svc := NewActivitiesService(db.DB)
	svc.SetClock(func() time.Time { return time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC) })

	upcoming, err := svc.Upcoming(home, 3)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if got := titles(upcoming); len(got) != 3 || got[0] != "Hoy" || got[1] != "Pronto" || got[2] != "Después" {
		t.Fatalf("unexpected upcoming events: %v", got)
	}
}

func TestActivitiesUpcomingFollowsClubDay(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	pages := NewPageService(db.DB)
	home := mustHome(t, pages)
	index := mustAddPage(t, pages, home.ID, PageInput{Type: PageTypeActivitiesIndex, Title: "Actividades", Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Ayer", DateFrom: day(2025, 5, 31), Live: true})
	mustAddPage(t, pages, index.ID, PageInput{Type: PageTypeEvent, Title: "Hoy", DateFrom: day(2025, 6, 1), Live: true})

	svc := NewActivitiesService(db.DB)
	// 00:30 on 1 June in Madrid.
	svc.SetClock(func() time.Time { return time.Date(2025, 5, 31, 22, 30, 0, 0, time.UTC) })

	upcoming, err := svc.Upcoming(home, 3)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if got := titles(upcoming); len(got) != 1 || got[0] != "Hoy" {
		t.Fatalf("unexpected upcoming events: %v", got)
	}

	svc.SetLocation(time.UTC)
	upcoming, err = svc.Upcoming(home, 3)
	if err != nil {
		t.Fatalf("upcoming failed: %v", err)
	}
	if got := titles(upcoming); len(got) != 2 {
		t.Fatalf("expected both events on the UTC day, got %v", got)
	}
}
