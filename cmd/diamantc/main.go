// Command diamantc is the thin external CLI spec.md §6 describes:
// `diamantc [command] file`, command defaulting to lex, dispatched
// with github.com/urfave/cli/v2 exactly as tawago/main.go builds its
// own app.Commands, including its ExitErrHandler shape for reporting a
// failure.
package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/diamant-lang/diamant/annotate"
	"github.com/diamant-lang/diamant/config"
	"github.com/diamant-lang/diamant/lexer"
	"github.com/diamant-lang/diamant/parser"
	"github.com/diamant-lang/diamant/pp"
	"github.com/diamant-lang/diamant/token"
)

// sourceFiles resolves which files a command runs over: the CLI
// argument if one was given, else cfg.Sources (SPEC_FULL.md "which
// source files the source/lex/parse/pp commands operate on by
// default"), else an error.
func sourceFiles(c *cli.Context, cfg config.Config) ([]string, error) {
	if arg := c.Args().First(); arg != "" {
		return []string{arg}, nil
	}
	if len(cfg.Sources) > 0 {
		return cfg.Sources, nil
	}
	return nil, fmt.Errorf("no source file given")
}

func lexAll(source, filename string, cfg config.Config) []token.Token {
	l := lexer.NewWithTabWidth(source, filename, cfg.TabWidth)
	var toks []token.Token
	for {
		tok := l.Lex()
		toks = append(toks, tok)
		if tok.Kind == token.KindEOF {
			break
		}
	}
	return toks
}

// runCommand loads the project config, resolves the file(s) it should
// run over, and invokes dump once per file.
func runCommand(c *cli.Context, dump func(cfg config.Config, source, filename string) error) error {
	cfg, err := config.Load(config.DefaultFilename)
	if err != nil {
		return err
	}
	files, err := sourceFiles(c, cfg)
	if err != nil {
		return err
	}
	for _, file := range files {
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return err
		}
		if err := dump(cfg, string(data), file); err != nil {
			return err
		}
	}
	return nil
}

// checkWarnings prints every annotator warning to stderr, returning the
// first one as an error when cfg.WarningsAsErrors promotes warnings to
// fatal diagnostics.
func checkWarnings(cfg config.Config, warnings []error) error {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
		if cfg.WarningsAsErrors {
			return w
		}
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "diamantc",
		Usage: "Diamant front-end: lexer, parser, and scope annotator",
		ExitErrHandler: func(context *cli.Context, err error) {
			if err == nil {
				return
			}
			if tracerr.Unwrap(err) != err {
				tracerr.PrintSourceColor(err)
			} else {
				log.Println(err)
			}
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:  "source",
				Usage: "print the raw source text",
				Action: func(c *cli.Context) error {
					return runCommand(c, func(_ config.Config, source, _ string) error {
						fmt.Print(source)
						return nil
					})
				},
			},
			{
				Name:  "lex",
				Usage: "dump the token stream as JSON (spec.md §6 token dictionary shape)",
				Action: func(c *cli.Context) error {
					return runCommand(c, func(cfg config.Config, source, filename string) error {
						toks := lexAll(source, filename, cfg)
						enc := json.NewEncoder(os.Stdout)
						enc.SetIndent("", "  ")
						return enc.Encode(toks)
					})
				},
			},
			{
				Name:  "parse",
				Usage: "dump the annotated AST as JSON (spec.md §6 AST node shape)",
				Action: func(c *cli.Context) error {
					return runCommand(c, func(cfg config.Config, source, filename string) error {
						l := lexer.NewWithTabWidth(source, filename, cfg.TabWidth)
						p := parser.New(l)
						top, err := p.Parse()
						if err != nil {
							return err
						}
						warnings, err := annotate.Run(top)
						if err != nil {
							return err
						}
						if err := checkWarnings(cfg, warnings); err != nil {
							return err
						}
						enc := json.NewEncoder(os.Stdout)
						enc.SetIndent("", "  ")
						return enc.Encode(top)
					})
				},
			},
			{
				Name:  "pp",
				Usage: "pretty-print the token stream and annotated AST with repr",
				Action: func(c *cli.Context) error {
					return runCommand(c, func(cfg config.Config, source, filename string) error {
						toks := lexAll(source, filename, cfg)
						pp.Tokens(os.Stdout, toks)

						l := lexer.NewWithTabWidth(source, filename, cfg.TabWidth)
						p := parser.New(l)
						top, err := p.Parse()
						if err != nil {
							return err
						}
						warnings, err := annotate.Run(top)
						if err != nil {
							return err
						}
						if err := checkWarnings(cfg, warnings); err != nil {
							return err
						}
						pp.AST(os.Stdout, top)
						return nil
					})
				},
			},
		},
	}
	if err := app.Run(withDefaultCommand(os.Args, app.Commands, "lex")); err != nil {
		os.Exit(1)
	}
}

// withDefaultCommand inserts def as argv[1] when the first argument isn't
// already a known subcommand name, so `diamantc file.di` behaves as
// `diamantc lex file.di` (spec.md §6 "defaults to lex").
func withDefaultCommand(argv []string, commands []*cli.Command, def string) []string {
	if len(argv) < 2 {
		return argv
	}
	first := argv[1]
	for _, cmd := range commands {
		if cmd.Name == first {
			return argv
		}
	}
	if first == "-h" || first == "--help" || first == "-v" || first == "--version" {
		return argv
	}
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[0], def)
	out = append(out, argv[1:]...)
	return out
}
