package design

import (
	"io"
	"testing"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/mlog"
	"github.com/czepiel/mlelr/model"
	"github.com/czepiel/mlelr/options"
	"github.com/czepiel/mlelr/tabulate"
)

func buildFor(t *testing.T, names []string, rows [][]float64, dv string, mains []model.MainEffect, interactions []model.Interaction, weightCol int, opts *options.Options) *Artifacts {
	t.Helper()
	tbl, err := dataset.NewTable(names, rows, weightCol)
	if err != nil {
		t.Fatal(err)
	}
	log := mlog.New(io.Discard, mlog.Verbose)
	desc, err := model.NewDescriptor(tbl, dv, log)
	if err != nil {
		t.Fatal(err)
	}
	desc.MainEffects = mains
	desc.Interactions = interactions

	freqs, xtab := tabulate.Tabulate(tbl, desc)
	art, err := Build(xtab, freqs, desc, opts)
	if err != nil {
		t.Fatal(err)
	}
	return art
}

func TestBuildBinaryDummyCoding(t *testing.T) {
	// y in {0,1}, single binary categorical main effect a in {1,2}.
	rows := [][]float64{
		{0, 1},
		{1, 1},
		{0, 2},
		{1, 2},
		{1, 2},
	}
	opts := options.New()
	opts.Set("params", options.ParamsDummy)
	art := buildFor(t, []string{"y", "a"}, rows, "y",
		[]model.MainEffect{{VarIndex: 1, Name: "a", Direct: false}}, nil, dataset.NoWeight, opts)

	if art.K != 2 {
		t.Fatalf("K = %d, want 2 (intercept + 1 dummy column)", art.K)
	}
	if art.NPop != 2 {
		t.Fatalf("NPop = %d, want 2", art.NPop)
	}
	if art.J != 2 {
		t.Fatalf("J = %d, want 2", art.J)
	}

	// Population with a=1: dummy column should be 1; a=2 (reference): 0.
	foundOne, foundTwo := false, false
	for p := 0; p < art.NPop; p++ {
		if art.X.At(p, 1) == 1 {
			foundOne = true
		}
		if art.X.At(p, 1) == 0 {
			foundTwo = true
		}
	}
	if !foundOne || !foundTwo {
		t.Fatalf("expected one population coded 1 and one coded 0 under dummy scheme")
	}
}

func TestBuildCenterPointReferenceIsMinusOne(t *testing.T) {
	rows := [][]float64{
		{0, 1},
		{1, 2},
	}
	art := buildFor(t, []string{"y", "a"}, rows, "y",
		[]model.MainEffect{{VarIndex: 1, Name: "a", Direct: false}}, nil, dataset.NoWeight, options.New())

	// a=2 is the largest level (reference), coded -1 under center-point.
	for p := 0; p < art.NPop; p++ {
		v := art.X.At(p, 1)
		if v != 1 && v != -1 {
			t.Fatalf("center-point column value = %v, want 1 or -1", v)
		}
	}
}

func TestBuildInterceptOnlyThreeCategoryBaseline(t *testing.T) {
	rows := [][]float64{
		{0},
		{1},
		{2},
	}
	art := buildFor(t, []string{"y"}, rows, "y", nil, nil, dataset.NoWeight, options.New())

	if art.K != 1 {
		t.Fatalf("K = %d, want 1 (intercept only)", art.K)
	}
	if art.J != 3 {
		t.Fatalf("J = %d, want 3", art.J)
	}
	if art.NPop != 1 {
		t.Fatalf("NPop = %d, want 1 (no covariates)", art.NPop)
	}
	if art.N[0] != 3 {
		t.Fatalf("n[0] = %v, want 3", art.N[0])
	}
}

func TestBuildInteractionColumnCount(t *testing.T) {
	// a has 3 levels (2 encoding cols), b has 2 levels (1 encoding col):
	// interaction a*b should contribute 2*1 = 2 columns.
	rows := [][]float64{
		{0, 1, 1},
		{1, 2, 1},
		{0, 3, 2},
	}
	mains := []model.MainEffect{
		{VarIndex: 1, Name: "a", Direct: false},
		{VarIndex: 2, Name: "b", Direct: false},
	}
	interactions := []model.Interaction{{Terms: []int{0, 1}, Name: "a*b"}}
	art := buildFor(t, []string{"y", "a", "b"}, rows, "y", mains, interactions, dataset.NoWeight, options.New())

	// K = 1 (intercept) + 2 (a) + 1 (b) + 2 (a*b) = 6.
	if art.K != 6 {
		t.Fatalf("K = %d, want 6", art.K)
	}
	interactionLabelCount := 0
	for _, l := range art.Labels {
		if l == "a*b" {
			interactionLabelCount++
		}
	}
	if interactionLabelCount != 2 {
		t.Fatalf("interaction label count = %d, want 2", interactionLabelCount)
	}
}

func TestBuildWeightedEquivalentToExpandedRows(t *testing.T) {
	weighted := buildFor(t, []string{"y", "a", "w"}, [][]float64{
		{0, 1, 2},
		{1, 1, 3},
	}, "y", []model.MainEffect{{VarIndex: 1, Name: "a", Direct: false}}, nil, 2, options.New())

	expanded := buildFor(t, []string{"y", "a"}, [][]float64{
		{0, 1}, {0, 1},
		{1, 1}, {1, 1}, {1, 1},
	}, "y", []model.MainEffect{{VarIndex: 1, Name: "a", Direct: false}}, nil, dataset.NoWeight, options.New())

	if weighted.NPop != expanded.NPop || weighted.K != expanded.K || weighted.J != expanded.J {
		t.Fatalf("shape mismatch: weighted=%+v expanded=%+v", weighted, expanded)
	}
	for j := 0; j < weighted.J; j++ {
		if weighted.Y.At(0, j) != expanded.Y.At(0, j) {
			t.Fatalf("Y mismatch at col %d: weighted=%v expanded=%v", j, weighted.Y.At(0, j), expanded.Y.At(0, j))
		}
	}
}
