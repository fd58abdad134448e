package bbref

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PerGameTableID is the id of the per-game stats table on season pages.
const PerGameTableID = "per_game_stats"

// Row is one player line of the per-game table, keyed by the cell data-stat.
type Row map[string]string

// data-stat keys differ between page generations; the first present wins.
var (
	statName      = []string{"name_display", "player"}
	statTeam      = []string{"team_name_abbr", "team_id"}
	statPosition  = []string{"pos"}
	statGames     = []string{"games", "g"}
	statMinutes   = []string{"mp_per_g"}
	statPoints    = []string{"pts_per_g"}
	statRebounds  = []string{"trb_per_g"}
	statAssists   = []string{"ast_per_g"}
	statSteals    = []string{"stl_per_g"}
	statBlocks    = []string{"blk_per_g"}
	statFGPct     = []string{"fg_pct"}
	statThreePct  = []string{"fg3_pct"}
	statFreeThrow = []string{"ft_pct"}
)

func (r Row) Get(keys []string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Float reads a numeric cell. Blank or malformed cells count as zero, matching
// how the site leaves percentages empty for players without attempts.
func (r Row) Float(keys []string) float64 {
	raw := r.Get(keys)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParsePerGame extracts the body rows of the per-game table. Repeated header rows
// inside the body are skipped.
func ParsePerGame(page []byte) ([]Row, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	table := findByID(doc, PerGameTableID)
	if table == nil {
		return nil, fmt.Errorf("table %s not found", PerGameTableID)
	}

	var rows []Row
	walk(table, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
			return true
		}
		if !inBody(n, table) || isHeaderRow(n) {
			return false
		}
		row := make(Row)
		for cell := n.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
				continue
			}
			if key := attr(cell, "data-stat"); key != "" {
				row[key] = textContent(cell)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		return false
	})
	return rows, nil
}

func findByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if found != nil {
			return false
		}
		if node.Type == html.ElementNode && attr(node, "id") == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// walk visits nodes depth first; visit returns false to skip a node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func inBody(tr, table *html.Node) bool {
	for p := tr.Parent; p != nil && p != table; p = p.Parent {
		if p.DataAtom == atom.Tbody {
			return true
		}
		if p.DataAtom == atom.Thead || p.DataAtom == atom.Tfoot {
			return false
		}
	}
	return false
}

func isHeaderRow(tr *html.Node) bool {
	for _, class := range strings.Fields(attr(tr, "class")) {
		if class == "thead" || class == "over_header" {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		return true
	})
	return strings.TrimSpace(b.String())
}
