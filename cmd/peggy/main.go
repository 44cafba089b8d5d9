/*
peggy parses text with a grammar written in EBNF and prints the resulting
syntax tree. Usage is

	peggy -grammar <file> [-start <name>] [-disasm] [-memo] [-timeout <d>] [-query <xpath>] [-v] [<input>]

-grammar <file> names the EBNF grammar;

-start <name> names the start production, default is "Program";

-disasm prints the compiled program before parsing;

-memo memoizes every rule;

-timeout <d> bounds each regular expression match;

-query <xpath> prints only the nodes the XPath expression selects;

-v enables debug logging to stderr;

<input> names the file to parse, default is standard input.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chronos-tachyon/peggy/ast"
	"github.com/chronos-tachyon/peggy/ebnf"
	"github.com/chronos-tachyon/peggy/grammar"
	"github.com/chronos-tachyon/peggy/parser"
	"github.com/chronos-tachyon/peggy/peggyvm"
)

var (
	grammarFile, startName string
	queryPath              string
	disasm, memoize        bool
	verbose                bool
	timeout                time.Duration
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage is  peggy -grammar <file> [-start <name>] [-disasm] [-memo] [-timeout <d>] [-query <xpath>] [-v] [<input>]")
		flag.PrintDefaults()
	}

	flag.StringVar(&grammarFile, "grammar", "", "EBNF grammar file")
	flag.StringVar(&startName, "start", "Program", "start production")
	flag.BoolVar(&disasm, "disasm", false, "print the compiled program")
	flag.BoolVar(&memoize, "memo", false, "memoize every rule")
	flag.DurationVar(&timeout, "timeout", peggyvm.DefaultPatternTimeout, "regular expression match timeout")
	flag.StringVar(&queryPath, "query", "", "XPath expression selecting the nodes to print")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()
	if grammarFile == "" || flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, flag.Arg(0), os.Stdout); err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			fmt.Fprint(os.Stderr, pe.Message)
			os.Exit(1)
		}
		logger.Error("peggy failed", "err", err)
		os.Exit(3)
	}
}

func run(logger *slog.Logger, inputFile string, w io.Writer) error {
	g, err := loadGrammar()
	if err != nil {
		return err
	}

	var q *ast.Query
	if queryPath != "" {
		if q, err = ast.NewQuery(queryPath); err != nil {
			return err
		}
	}

	p, err := parser.New(g, parser.WithLogger(logger), parser.WithPatternTimeout(timeout))
	if err != nil {
		return err
	}
	if disasm {
		if _, err := p.Program().Disassemble(w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	var src []byte
	if inputFile == "" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(inputFile)
	}
	if err != nil {
		return err
	}

	n, err := p.ParseString(string(src))
	if err != nil {
		return err
	}
	if q == nil {
		_, err = io.WriteString(w, n.Dump())
		return err
	}
	for _, m := range q.SelectNodes(n) {
		if _, err := io.WriteString(w, m.Dump()); err != nil {
			return err
		}
	}
	return nil
}

func loadGrammar() (*grammar.Grammar, error) {
	f, err := os.Open(grammarFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := ebnf.Load(grammarFile, f, startName)
	if err != nil {
		return nil, err
	}
	if memoize {
		return b.BuildWithMemoization()
	}
	return b.Build()
}
