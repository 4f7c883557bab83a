package service

import (
	"errors"
	"testing"

	"github.com/radioclub/internal/db"
)

func TestBoardServiceCRUDAndOrder(t *testing.T) {
	cleanup := setupPageServiceTestDB(t)
	defer cleanup()

	svc := NewBoardService(db.DB)
	president, err := svc.Create(BoardMemberInput{Name: "Chus De Prado", Callsign: "ea1iq", Role: "Presidente"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if president.Callsign != "EA1IQ" || president.SortOrder != 0 {
		t.Fatalf("unexpected member: %+v", president)
	}
	secretary, err := svc.Create(BoardMemberInput{Name: "Ana", Role: "Secretaria", Email: "ana@example.org"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if secretary.SortOrder != 1 || secretary.String() != "Ana" {
		t.Fatalf("unexpected second member: %+v", secretary)
	}

	if err := svc.Reorder([]uint{secretary.ID, president.ID}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	members, _ := svc.List()
	if len(members) != 2 || members[0].ID != secretary.ID {
		t.Fatalf("expected secretary first after reorder")
	}
	if err := svc.Reorder([]uint{secretary.ID, secretary.ID}); !errors.Is(err, ErrBoardMemberOrder) {
		t.Fatalf("expected ErrBoardMemberOrder, got %v", err)
	}

	found, err := svc.FindByCallsign(" Ea1iq ")
	if err != nil || found.ID != president.ID {
		t.Fatalf("expected to find president by callsign, got %v, %v", found, err)
	}

	_, err = svc.Update(president.ID, BoardMemberInput{Name: "", Role: "Presidente", Email: "mal", PhotoID: uintPtr(77)})
	fields := FieldErrors(err)
	for _, key := range []string{"name", "email", "photo_id"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected %s error, got %v", key, fields)
		}
	}

	updated, err := svc.Update(president.ID, BoardMemberInput{Name: "Chus De Prado", Callsign: "EA1IQ", Role: "Presidente de honor"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Role != "Presidente de honor" || updated.SortOrder != 1 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := svc.Delete(secretary.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(secretary.ID); !errors.Is(err, ErrBoardMemberNotFound) {
		t.Fatalf("expected ErrBoardMemberNotFound, got %v", err)
	}
	if err := svc.Delete(secretary.ID); !errors.Is(err, ErrBoardMemberNotFound) {
		t.Fatalf("expected ErrBoardMemberNotFound on second delete, got %v", err)
	}
}
