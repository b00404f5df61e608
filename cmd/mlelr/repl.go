package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/czepiel/mlelr/session"
)

// runREPL implements the original interactive input_handler loop: read a
// line, dispatch on its first word, repeat until quit or EOF.
func runREPL(sess *session.Session, r io.Reader) {
	scanner := bufio.NewScanner(r)
	interactive := r == os.Stdin

	for {
		if interactive {
			fmt.Print("mlelr-> ")
		}
		if !scanner.Scan() {
			sess.Log.Verbose("Processing of input is complete.")
			return
		}

		fields := splitLine(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if dispatch(sess, fields) {
			sess.Log.Info("Exiting.  Bye!")
			return
		}
	}
}

// dispatch executes one parsed command line, returning true if the
// session should terminate (the "q"/"quit" commands).
func dispatch(sess *session.Session, fields []string) bool {
	word := fields[0]
	rest := fields[1:]

	switch word {
	case "q", "quit":
		return true
	case "#":
		// comment line, do nothing
	case "import":
		if len(rest) != 3 {
			sess.Log.Info("Syntax error: import expects 3 arguments:  handle filename delimiter")
			return false
		}
		runImport(sess, rest[0], rest[1], rest[2])
	case "print":
		if len(rest) != 2 {
			sess.Log.Info("Syntax error: print expects 2 arguments:  handle numlines")
			return false
		}
		runPrint(sess, rest[0], rest[1])
	case "table":
		if len(rest) != 2 {
			sess.Log.Info("Syntax error: table expects 2 arguments:  handle varname")
			return false
		}
		runTable(sess, rest[0], rest[1])
	case "weight":
		if len(rest) != 2 {
			sess.Log.Info("Syntax error: weight expects 2 arguments:  handle varname")
			return false
		}
		runWeight(sess, rest[0], rest[1])
	case "option":
		if len(rest) != 2 {
			sess.Log.Info("Syntax error: option expects 2 arguments:  key value")
			return false
		}
		sess.Options.Set(rest[0], rest[1])
	case "logreg":
		runLogreg(sess, rest)
	case "help":
		printHelp()
	default:
		sess.Log.Info("Warning:  Command not found: %s\nEnter 'help' for a list of available commands.", word)
	}
	return false
}

func printHelp() {
	fmt.Println(`Available commands:
  import <handle> <filename> <delimiter>  Import a delimited text file.
  print  <handle> <numlines>              Print a dataset.
  table  <handle> <varname>               Univariate frequency tabulation.
  logreg <handle> <dv> = <effect...>      Estimate a logistic regression model.
  weight <handle> <varname>               Assign a weight variable to the dataset.
  option <key> <value>                    Set a global option.
  help                                    Print this message.
  q, quit                                 Exit the program.`)
}
