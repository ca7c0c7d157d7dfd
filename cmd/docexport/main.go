package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:     "docexport",
		HelpName: "docexport",
		Usage:    "Render editor documents and export the static blog",
		Commands: []*cli.Command{
			exportCommand,
			renderCommand,
			watchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
