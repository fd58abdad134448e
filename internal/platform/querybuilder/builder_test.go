package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("name", "fantasy_value").
		From("draft_players").
		Where(Eq("status", "available"), Expr("fantasy_value >= ?", 20.5)).
		OrderBy("fantasy_rank").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT name, fantasy_value FROM draft_players WHERE status = $1 AND fantasy_value >= $2 ORDER BY fantasy_rank LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "available" || args[1] != 20.5 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("draft_teams").
		Columns("slot", "name").
		Values(0, "Alpha").
		Values(1, "Beta").
		OnConflict("(slot) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO draft_teams (slot, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (slot) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != 1 || args[3] != "Beta" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowArity(t *testing.T) {
	_, _, err := InsertInto("draft_teams").Columns("slot", "name").Values(0).ToSQL()
	if err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("draft_acquisitions").
		Where(Expr("team_name <> ALL(?)", []string{"Alpha", "Beta"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM draft_acquisitions WHERE team_name <> ALL($1)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, _ = DeleteFrom("draft_players").ToSQL()
	if query != "DELETE FROM draft_players" {
		t.Fatalf("unexpected unconditioned delete: %s", query)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		Slot     int    `db:"slot"`
		Name     string `db:"name"`
		internal string
		Skipped  string `db:"-"`
	}

	query, args, err := InsertModels("draft_teams", []row{{Slot: 0, Name: "Alpha"}, {Slot: 1, Name: "Beta"}}, "")
	if err != nil {
		t.Fatalf("build model insert: %v", err)
	}

	wantQuery := "INSERT INTO draft_teams (slot, name) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("draft_teams", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}
