package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/czepiel/mlelr/estimator"
	"github.com/czepiel/mlelr/importcsv"
	"github.com/czepiel/mlelr/logreg"
	"github.com/czepiel/mlelr/session"
)

// parseDelim accepts the literal two characters "\t" as a tab delimiter,
// in addition to any single literal delimiter character, matching
// cmd_import's handling of the delimiter argument.
func parseDelim(s string) rune {
	if s == `\t` {
		return '\t'
	}
	if len(s) > 0 {
		return rune(s[0])
	}
	return ','
}

func newImportCmd(sess *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <handle> <filename> <delimiter>",
		Short: "Import a delimited text file.",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			runImport(sess, args[0], args[1], args[2])
		},
	}
}

func runImport(sess *session.Session, handle, filename, delimArg string) {
	f, err := os.Open(filename)
	if err != nil {
		sess.Log.Info("Error:  Could not open file: %s", filename)
		return
	}
	defer f.Close()

	table, err := importcsv.Import(f, parseDelim(delimArg), -1, sess.Log)
	if err != nil {
		sess.Log.Info("Error importing %s: %v", filename, err)
		return
	}
	sess.Register(handle, table)
}

func newPrintCmd(sess *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "print <handle> <numlines>",
		Short: "Print a dataset.",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runPrint(sess, args[0], args[1])
		},
	}
}

func runPrint(sess *session.Session, handle, numLinesArg string) {
	table, err := sess.Lookup(handle)
	if err != nil {
		sess.Log.Info("Error:  dataset not found: %s", handle)
		return
	}
	n, _ := strconv.Atoi(numLinesArg)
	if n <= 0 || n > table.NumRows() {
		n = table.NumRows()
	}

	for _, name := range table.Names() {
		fmt.Printf("%16s", name)
	}
	fmt.Println()
	for i := 0; i < n; i++ {
		for j := 0; j < table.NumCols(); j++ {
			fmt.Printf("%16.2f", table.At(i, j))
		}
		fmt.Println()
	}
}

func newWeightCmd(sess *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "weight <handle> <varname>",
		Short: "Assign a weight variable to the dataset.",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runWeight(sess, args[0], args[1])
		},
	}
}

func runWeight(sess *session.Session, handle, varname string) {
	table, err := sess.Lookup(handle)
	if err != nil {
		sess.Log.Info("Error:  dataset not found: %s", handle)
		return
	}
	if err := table.SetWeightColumn(varname); err != nil {
		sess.Log.Info("Error:  variable not found: %s", varname)
	}
}

func newTableCmd(sess *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "table <handle> <varname>",
		Short: "Univariate frequency tabulation.",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			runTable(sess, args[0], args[1])
		},
	}
}

func runTable(sess *session.Session, handle, varname string) {
	table, err := sess.Lookup(handle)
	if err != nil {
		sess.Log.Info("Error:  dataset not found: %s", handle)
		return
	}
	idx := table.IndexOf(varname)
	if idx == -1 {
		sess.Log.Info("Error:  variable not found: %s", varname)
		return
	}

	weights := make(map[float64]float64)
	for i := 0; i < table.NumRows(); i++ {
		w := table.Weight(i)
		if w <= 0 {
			continue
		}
		weights[table.At(i, idx)] += w
	}
	fmt.Printf("%16s%16s\n", varname, "freq")
	for v, w := range weights {
		fmt.Printf("%16g%16g\n", v, w)
	}
}

func newOptionCmd(sess *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "option <key> <value>",
		Short: "Set a global option.",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			sess.Options.Set(args[0], args[1])
		},
	}
}

func newLogregCmd(sess *session.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "logreg <handle> <dv> = <effect...>",
		Short: "Estimate a logistic regression model.",
		Args:  cobra.MinimumNArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			runLogreg(sess, args)
		},
	}
}

// runLogreg expects args formatted as: handle dv "=" effect...
func runLogreg(sess *session.Session, args []string) {
	if len(args) < 4 || args[2] != "=" {
		sess.Log.Info("Syntax error: logreg expects a dataset handle, followed by a dependent variable name, " +
			"followed by \" = \" (note the spaces), followed by one or more main effects and optional " +
			"interaction effects.\nSpecify interactions with an asterisk, as in var1*var2\n" +
			"Specify direct effects by preceding with \"direct.\", as in direct.var1")
		return
	}

	handle, dv, effects := args[0], args[1], args[3:]

	result, err := logreg.Fit(sess, handle, dv, effects)
	if err != nil {
		sess.Log.Info("Error: %v", err)
		return
	}

	report := estimator.Report(result.Descriptor.String(), result.Artifacts, result.DVFreq, result.Xtab, result.Fit)
	fmt.Print(report)
}

// splitLine tokenizes a REPL input line on runs of whitespace, mirroring
// csvgetline's compress-delimiter mode for commands.
func splitLine(line string) []string {
	return strings.Fields(line)
}
