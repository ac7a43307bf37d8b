package batch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/genusmatch/internal/corpus"
	"github.com/matsen/genusmatch/internal/match"
)

// setupDataDir writes genera and abstracts files for each family.
func setupDataDir(t *testing.T, families map[string][2]string) string {
	t.Helper()
	dir := t.TempDir()
	for family, files := range families {
		if err := os.WriteFile(corpus.GeneraPath(dir, family), []byte(files[0]), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(corpus.AbstractsPath(dir, family), []byte(files[1]), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testData() map[string][2]string {
	return map[string][2]string{
		"Rosaceae": {
			"Rosa\nQuercus\n",
			"This paper studies Rosa flowers.\n\n\nThis paper is about cars.",
		},
		"Salicaceae": {
			"Salix\nPopulus\n",
			"Salix alba and Populus nigra.\n\n\nPopulus clones.\n\n\nNothing relevant.",
		},
	}
}

func TestDriver_RunOrdersRowsByFamilyList(t *testing.T) {
	dir := setupDataDir(t, testData())

	var progress []string
	d := &Driver{
		Dir:     dir,
		Matcher: match.New(),
		Progress: func(done, total int, family string) {
			progress = append(progress, family)
			if total != 2 {
				t.Errorf("progress total = %d, want 2", total)
			}
		},
	}

	families := []string{"Salicaceae", "Rosaceae"}
	rows, err := d.Run(context.Background(), families)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Run() returned %d rows, want 2", len(rows))
	}

	if rows[0].Family != "Salicaceae" || rows[1].Family != "Rosaceae" {
		t.Errorf("row order = %q, %q", rows[0].Family, rows[1].Family)
	}
	if !reflect.DeepEqual(progress, families) {
		t.Errorf("progress = %v, want %v", progress, families)
	}

	if rows[0].NAbstracts != 3 || rows[0].NMatches != 2 {
		t.Errorf("Salicaceae row = %+v, want 3 abstracts, 2 matches", rows[0])
	}
	if rows[1].NAbstracts != 2 || rows[1].NMatches != 1 {
		t.Errorf("Rosaceae row = %+v, want 2 abstracts, 1 match", rows[1])
	}
	if !reflect.DeepEqual(rows[1].MatchIndexes, []int{0}) {
		t.Errorf("Rosaceae MatchIndexes = %v, want [0]", rows[1].MatchIndexes)
	}
	for _, r := range rows {
		if r.TimeSeconds < 0 || r.PeakMemMiB < 0 {
			t.Errorf("row %s has negative measurements: %+v", r.Family, r)
		}
		if r.StartedAt.IsZero() {
			t.Errorf("row %s has no start time", r.Family)
		}
	}
}

func TestDriver_MissingFamilyAborts(t *testing.T) {
	dir := setupDataDir(t, testData())

	d := &Driver{Dir: dir, Matcher: match.New()}
	_, err := d.Run(context.Background(), []string{"Rosaceae", "Fagaceae"})
	if err == nil {
		t.Fatal("Run() should fail when a family's files are missing")
	}
	if !strings.Contains(err.Error(), "Fagaceae") {
		t.Errorf("error %q does not name the family", err)
	}
}

func TestDriver_MissingAbstracts(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Rosaceae_genera.txt"), []byte("Rosa\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(dir, "Rosaceae"); err == nil {
		t.Error("Load() should fail without an abstracts file")
	}
}

func TestDriver_Cancelled(t *testing.T) {
	dir := setupDataDir(t, testData())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &Driver{Dir: dir, Matcher: match.New()}
	if _, err := d.Run(ctx, []string{"Rosaceae"}); err == nil {
		t.Error("Run() should fail on a cancelled context")
	}
}

func TestTable(t *testing.T) {
	rows := []Row{
		{Family: "Rosaceae", NAbstracts: 2, NMatches: 1, PeakMemMiB: 0.5, TimeSeconds: 0.012},
		{Family: "Salicaceae", NAbstracts: 3, NMatches: 2, PeakMemMiB: 1.25, TimeSeconds: 0.02},
	}

	out := Table(rows)
	for _, want := range append(Columns, "Rosaceae", "Salicaceae", "1.25", "0.01") {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// Rosaceae appears before Salicaceae.
	if strings.Index(out, "Rosaceae") > strings.Index(out, "Salicaceae") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestTotals(t *testing.T) {
	rows := []Row{
		{Family: "A", NAbstracts: 2, NMatches: 1, PeakMemMiB: 0.5, TimeSeconds: 1},
		{Family: "B", NAbstracts: 3, NMatches: 2, PeakMemMiB: 1.5, TimeSeconds: 2},
	}
	got := Totals(rows)
	if got.NAbstracts != 5 || got.NMatches != 3 || got.TimeSeconds != 3 || got.PeakMemMiB != 1.5 {
		t.Errorf("Totals() = %+v", got)
	}
}
