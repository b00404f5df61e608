package model

import (
	"fmt"
	"strings"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/mlog"
)

const directPrefix = "direct."

// SyntaxError is returned by formula parsing on malformed input, mirroring
// the original's fixed syntax-error message from
// original_source/src/interface.c's cmd_logreg.
var SyntaxError = fmt.Errorf(
	"syntax error: logreg expects a dependent variable name, followed by \"=\", " +
		"followed by one or more main effects and optional interaction effects; " +
		"specify interactions with an asterisk, as in var1*var2; " +
		"specify direct effects by preceding with \"direct.\", as in direct.var1")

// ParseFormula builds a Descriptor from the dependent variable name and
// the effect tokens following "=" (spec.md §6). Each token is classified
// as an interaction ("a*b*c"), a direct main effect ("direct.name"), or a
// categorical main effect (bare name).
func ParseFormula(table *dataset.Table, dvName string, effects []string, log *mlog.Logger) (*Descriptor, error) {
	if len(effects) == 0 {
		return nil, SyntaxError
	}

	desc, err := NewDescriptor(table, dvName, log)
	if err != nil {
		return nil, err
	}

	for _, tok := range effects {
		if err := addEffectToken(desc, tok); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

func addEffectToken(desc *Descriptor, tok string) error {
	switch {
	case strings.Contains(tok, "*"):
		parts := strings.Split(tok, "*")
		for i, name := range parts {
			if name == "" {
				return SyntaxError
			}
			var err error
			if i == 0 {
				err = desc.AddInteractionFirst(name)
			} else {
				err = desc.AddInteractionTerm(name)
			}
			if err != nil {
				return err
			}
		}
	case strings.HasPrefix(tok, directPrefix) && len(tok) > len(directPrefix):
		return desc.AddMain(tok[len(directPrefix):], true)
	default:
		return desc.AddMain(tok, false)
	}
	return nil
}

// ParseLogregLine splits the fields of a "logreg" command line that
// follow the dataset handle, of the form
//
//	<dv> = <effect> [<effect> ...]
//
// returning the dependent variable name and the effect tokens. It checks
// only the shape of the line; names are resolved later by ParseFormula.
func ParseLogregLine(fields []string) (dv string, effects []string, err error) {
	if len(fields) < 3 || fields[1] != "=" {
		return "", nil, SyntaxError
	}
	return fields[0], fields[2:], nil
}
