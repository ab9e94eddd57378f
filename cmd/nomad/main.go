package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	parser := flags.NewNamedParser("nomad", flags.Default)

	parser.AddCommand("worker", docWorker, docWorker, &optsWorker{})
	parser.AddCommand("api", docApi, docApi, &optsAPI{})
	parser.AddCommand("migrate", docMigrate, docMigrate, &optsMigrate{})

	if _, err := parser.Parse(); err != nil {
		switch flagsErr := err.(type) {
		case flags.ErrorType:
			if flagsErr == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
