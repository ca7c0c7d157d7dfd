package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"mathdoc-be/pkg/lexical"
	"mathdoc-be/pkg/site"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var renderCommand = &cli.Command{
	Name:      "render",
	Usage:     "Render a Lexical JSON file to stdout",
	ArgsUsage: "FILE (use - for stdin)",
	Action:    render,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        "page",
			Usage:       "Wrap the body in the full page shell.",
			Destination: &renderOpts.page,
		},
		&cli.BoolFlag{
			Name:        "markdown",
			Aliases:     []string{"md"},
			Usage:       "Emit Markdown instead of HTML.",
			Destination: &renderOpts.markdown,
		},
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Title shown on the page when --page is set.",
			Destination: &renderOpts.title,
		},
		&cli.StringFlag{
			Name:        "site-config",
			Usage:       "YAML file with the page shell settings.",
			EnvVars:     []string{"SITE_CONFIG_PATH"},
			Destination: &renderOpts.siteConfig,
		},
		&cli.IntFlag{
			Name:        "max-depth",
			Usage:       "Maximum nesting depth rendered.",
			Value:       128,
			Destination: &renderOpts.maxDepth,
		},
	},
}

var renderOpts struct {
	page       bool
	markdown   bool
	title      string
	siteConfig string
	maxDepth   int
}

func render(cc *cli.Context) error {
	if cc.NArg() != 1 {
		return cli.Exit("render expects exactly one FILE argument", 1)
	}
	data, err := readInput(cc.Args().First())
	if err != nil {
		return err
	}

	out := cc.App.Writer

	if renderOpts.markdown {
		md, err := lexical.NewMarkdownWriter().Convert(data)
		if err != nil {
			return cli.Exit(color.RedString("convert: %v", err), 1)
		}
		_, err = io.WriteString(out, md)
		return err
	}

	shell, err := site.LoadShell(renderOpts.siteConfig)
	if err != nil {
		return fmt.Errorf("load site config: %w", err)
	}
	renderer := lexical.NewRenderer(lexical.WithMaxDepth(renderOpts.maxDepth))
	assembler := site.NewAssembler(renderer, shell)

	if _, err := renderer.Render(data); err != nil {
		fmt.Fprintln(cc.App.ErrWriter, color.YellowString("warning: %v", err))
	}

	var html string
	if renderOpts.page {
		html = assembler.RenderPage(data, site.Meta{Title: renderOpts.title, Date: time.Now()})
	} else {
		html = assembler.RenderBody(data) + "\n"
	}
	_, err = io.WriteString(out, html)
	return err
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
