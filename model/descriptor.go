// Package model implements the model descriptor (C2): the dependent
// variable, the ordered list of main effects (each tagged categorical or
// direct), and the ordered list of interaction groups.
package model

import (
	"fmt"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/mlog"
)

// MainEffect is one registered main effect: a variable, and whether it
// enters the design matrix as a raw numeric (direct) value or as a
// categorical encoding.
type MainEffect struct {
	VarIndex int
	Name     string
	Direct   bool
}

// Interaction is an ordered group of main effects (referenced by index
// into Descriptor.MainEffects, not by dataset column) whose encodings are
// combined as a Cartesian product.
type Interaction struct {
	Terms []int // indices into Descriptor.MainEffects
	Name  string
}

// Descriptor is a fully-resolved model: the dependent variable plus the
// main effects and interactions that make up the right-hand side of the
// formula.
type Descriptor struct {
	DVIndex int
	DVName  string

	MainEffects  []MainEffect
	Interactions []Interaction

	table *dataset.Table
	log   *mlog.Logger
}

// NewDescriptor starts a Descriptor for the given table with the given
// dependent variable name. It fails only if the dependent variable cannot
// be resolved in the table.
func NewDescriptor(table *dataset.Table, dvName string, log *mlog.Logger) (*Descriptor, error) {
	idx := table.IndexOf(dvName)
	if idx == -1 {
		return nil, fmt.Errorf("model: dependent variable not found: %s", dvName)
	}
	return &Descriptor{
		DVIndex: idx,
		DVName:  dvName,
		table:   table,
		log:     log,
	}, nil
}

// findMainEffect returns the index into MainEffects for varIndex, or -1.
func (d *Descriptor) findMainEffect(varIndex int) int {
	for i, me := range d.MainEffects {
		if me.VarIndex == varIndex {
			return i
		}
	}
	return -1
}

// AddMain registers a categorical or direct main effect. A duplicate
// registration is a warning, not an error (spec.md §3).
func (d *Descriptor) AddMain(name string, direct bool) error {
	idx := d.table.IndexOf(name)
	if idx == -1 {
		return fmt.Errorf("model: variable not found: %s", name)
	}

	if mi := d.findMainEffect(idx); mi != -1 {
		d.log.Warn("variable already exists in model: %s", name)
		return nil
	}

	d.MainEffects = append(d.MainEffects, MainEffect{VarIndex: idx, Name: name, Direct: direct})
	return nil
}

// registerAutoMain auto-registers a main effect referenced by an
// interaction term that was not yet declared, warning as it does so
// (spec.md §3's "the tabulator emits a warning and auto-registers").
func (d *Descriptor) registerAutoMain(name string) (int, error) {
	idx := d.table.IndexOf(name)
	if idx == -1 {
		return -1, fmt.Errorf("model: variable not found: %s", name)
	}
	if mi := d.findMainEffect(idx); mi != -1 {
		return mi, nil
	}
	d.log.Warn("this interaction variable will also be added as a main effect: %s", name)
	d.MainEffects = append(d.MainEffects, MainEffect{VarIndex: idx, Name: name, Direct: false})
	return len(d.MainEffects) - 1, nil
}

// AddInteractionFirst starts a new interaction group with its first term.
func (d *Descriptor) AddInteractionFirst(name string) error {
	mi, err := d.registerAutoMain(name)
	if err != nil {
		return err
	}
	d.Interactions = append(d.Interactions, Interaction{Terms: []int{mi}, Name: name})
	return nil
}

// AddInteractionTerm appends a term to the most recently started
// interaction group. A duplicate term within that group is a warning, not
// an error.
func (d *Descriptor) AddInteractionTerm(name string) error {
	if len(d.Interactions) == 0 {
		return fmt.Errorf("model: no interaction in progress for term: %s", name)
	}

	mi, err := d.registerAutoMain(name)
	if err != nil {
		return err
	}

	last := len(d.Interactions) - 1
	for _, t := range d.Interactions[last].Terms {
		if t == mi {
			d.log.Warn("interaction variable already exists: %s", name)
			return nil
		}
	}

	d.Interactions[last].Terms = append(d.Interactions[last].Terms, mi)
	d.Interactions[last].Name += "*" + name
	return nil
}

// Table returns the dataset table this descriptor was built against.
func (d *Descriptor) Table() *dataset.Table { return d.table }

// String renders the formula this descriptor represents, e.g.
// "y = a direct.b a*b".
func (d *Descriptor) String() string {
	s := d.DVName + " ="
	for _, me := range d.MainEffects {
		name := me.Name
		if me.Direct {
			name = directPrefix + name
		}
		s += " " + name
	}
	for _, in := range d.Interactions {
		s += " " + in.Name
	}
	return s
}
