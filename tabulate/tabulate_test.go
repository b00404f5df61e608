package tabulate

import (
	"io"
	"math"
	"testing"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/mlog"
	"github.com/czepiel/mlelr/model"
)

func buildDescriptor(t *testing.T, tbl *dataset.Table, dv string, mains []string) *model.Descriptor {
	t.Helper()
	log := mlog.New(io.Discard, mlog.Verbose)
	desc, err := model.NewDescriptor(tbl, dv, log)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range mains {
		if err := desc.AddMain(name, false); err != nil {
			t.Fatal(err)
		}
	}
	return desc
}

func TestTabulateAccumulatesWeights(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]string{"y", "a"},
		[][]float64{
			{0, 1},
			{0, 1},
			{1, 1},
			{1, 2},
		},
		dataset.NoWeight,
	)
	if err != nil {
		t.Fatal(err)
	}
	desc := buildDescriptor(t, tbl, "y", []string{"a"})

	freqs, xtab := Tabulate(tbl, desc)

	aFreq := freqs[0]
	if len(aFreq.Rows) != 2 {
		t.Fatalf("got %d rows for a, want 2", len(aFreq.Rows))
	}
	if aFreq.Lookup(1) != 3 {
		t.Fatalf("weight for a=1 = %v, want 3", aFreq.Lookup(1))
	}
	if aFreq.Lookup(2) != 1 {
		t.Fatalf("weight for a=2 = %v, want 1", aFreq.Lookup(2))
	}

	if len(xtab.Rows) != 3 {
		t.Fatalf("got %d crosstab rows, want 3", len(xtab.Rows))
	}
	// Sorted ascending by (a, y): (1,0) w=2, (1,1) w=1, (2,1) w=1.
	if xtab.Rows[0].Covariates[0] != 1 || xtab.Rows[0].Response != 0 || xtab.Rows[0].Weight != 2 {
		t.Fatalf("row 0 = %+v", xtab.Rows[0])
	}
	if xtab.Rows[1].Covariates[0] != 1 || xtab.Rows[1].Response != 1 || xtab.Rows[1].Weight != 1 {
		t.Fatalf("row 1 = %+v", xtab.Rows[1])
	}
	if xtab.Rows[2].Covariates[0] != 2 || xtab.Rows[2].Response != 1 || xtab.Rows[2].Weight != 1 {
		t.Fatalf("row 2 = %+v", xtab.Rows[2])
	}
}

func TestTabulateSkipsNonPositiveWeight(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]string{"y", "a", "w"},
		[][]float64{
			{0, 1, 1},
			{0, 1, 0},
			{0, 1, -1},
		},
		2,
	)
	if err != nil {
		t.Fatal(err)
	}
	desc := buildDescriptor(t, tbl, "y", []string{"a"})

	freqs, xtab := Tabulate(tbl, desc)
	if freqs[0].Lookup(1) != 1 {
		t.Fatalf("weight for a=1 = %v, want 1 (non-positive weights skipped)", freqs[0].Lookup(1))
	}
	if len(xtab.Rows) != 1 || xtab.Rows[0].Weight != 1 {
		t.Fatalf("xtab = %+v", xtab.Rows)
	}
}

func TestTabulateSysmisIsDistinctOrdinaryValue(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]string{"y", "a"},
		[][]float64{
			{0, dataset.Sysmis},
			{0, 1},
		},
		dataset.NoWeight,
	)
	if err != nil {
		t.Fatal(err)
	}
	desc := buildDescriptor(t, tbl, "y", []string{"a"})

	freqs, _ := Tabulate(tbl, desc)
	if len(freqs[0].Rows) != 2 {
		t.Fatalf("got %d distinct values for a, want 2 (SYSMIS counts as distinct)", len(freqs[0].Rows))
	}
	// SYSMIS (most negative finite float) sorts first.
	if freqs[0].Rows[0].Value != dataset.Sysmis {
		t.Fatalf("first row = %+v, want SYSMIS first", freqs[0].Rows[0])
	}
}

func TestOrderedKeyPreservesRealOrder(t *testing.T) {
	values := []float64{dataset.Sysmis, -100, -1, 0, 1, 100, math.MaxFloat64}
	for i := 1; i < len(values); i++ {
		if orderedKey(values[i-1]) >= orderedKey(values[i]) {
			t.Fatalf("orderedKey(%v) >= orderedKey(%v), order not preserved", values[i-1], values[i])
		}
	}
}
