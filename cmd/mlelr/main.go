package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/czepiel/mlelr/mlog"
	"github.com/czepiel/mlelr/session"
)

const welcome = "mlelr - maximum likelihood estimation of logistic regression models\n"

func main() {
	sess := session.New(mlog.New(os.Stdout, mlog.Info))

	root := &cobra.Command{
		Use:   "mlelr",
		Short: "Fit multinomial logistic regression models from the command line",
		Long:  welcome + "\nWith no subcommand, mlelr reads commands interactively from stdin.",
		Run: func(cmd *cobra.Command, args []string) {
			runREPL(sess, os.Stdin)
		},
	}

	root.AddCommand(
		newImportCmd(sess),
		newPrintCmd(sess),
		newTableCmd(sess),
		newWeightCmd(sess),
		newOptionCmd(sess),
		newLogregCmd(sess),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
