package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get draft state: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation draft_state does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert team: %w", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	if !isUniqueViolation(err) {
		t.Fatalf("expected unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("expected false for foreign key violation")
	}
}

func TestChunks(t *testing.T) {
	got := chunks([]int{1, 2, 3, 4, 5}, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != 5 {
		t.Fatalf("unexpected chunks: %v", got)
	}
	if chunks([]int(nil), 2) != nil {
		t.Fatalf("expected no chunks for empty input")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
