package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/lox-expression/internal/expression"
	"github.com/karupanerura/lox-expression/internal/graph"
	"github.com/karupanerura/lox-expression/internal/manifest"
	"github.com/karupanerura/lox-expression/internal/printer"
	"github.com/karupanerura/lox-expression/internal/server"
	"github.com/karupanerura/lox-expression/internal/types"
	"github.com/mattn/go-isatty"
)

// exit statuses follow sysexits(3)
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitNoInput  = 66
	exitSoftware = 70
)

type Option struct {
	SyntaxTree    bool   `short:"s" long:"syntax-tree" description:"[OPTIONAL] Export the parse tree as parse_tree.dot and parse_tree.svg"`
	SyntaxTreeDir string `long:"syntax-tree-dir" description:"[OPTIONAL] Directory to write the parse tree diagram to" default:"."`
	Print         string `short:"p" long:"print" description:"[OPTIONAL] Print the parse tree before evaluating it" choice:"infix" choice:"prefix"`
	Listen        string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the evaluation API"`
	Parallelism   int    `long:"parallelism" description:"[OPTIONAL] Number of manifest cases evaluated at once" default:"4"`
	Debug         bool   `long:"debug" description:"[OPTIONAL] Dump tokens and trees while compiling"`
	Args          struct {
		Script string `positional-arg-name:"script" description:"Expression file, or a .yaml/.json manifest. Starts a REPL when omitted"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default&^flags.PrintErrors)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		parser.WriteHelp(stderr)
		return exitUsage
	}
	if opt.Listen != "" && opt.Args.Script != "" {
		parser.WriteHelp(stderr)
		return exitUsage
	}

	// server mode
	if opt.Listen != "" {
		if err := serve(opt.Listen); err != nil {
			log.Printf("failed to serve: %v", err)
			return exitSoftware
		}
		return exitOK
	}

	s := newSession(&opt)
	if opt.Args.Script == "" {
		return runPrompt(s, stdin, stdout)
	}
	if manifest.IsManifestPath(opt.Args.Script) {
		return runManifest(&opt, stdout, stderr)
	}
	return runFile(s, opt.Args.Script, stdout, stderr)
}

// session carries what the file and prompt modes share.
type session struct {
	compile   func(string) (*expression.Expr, error)
	evaluator *expression.Evaluator
	exporter  *graph.Exporter
	style     printer.Style
}

func newSession(opt *Option) *session {
	s := &session{
		compile:   expression.Compile,
		evaluator: expression.NewEvaluator(),
	}
	if opt.Debug {
		s.compile = expression.CompileWithDebugOutput
	}
	if opt.SyntaxTree {
		s.exporter = graph.NewExporter(opt.SyntaxTreeDir)
	}
	if opt.Print != "" {
		s.style = printer.Style(opt.Print)
	}
	return s
}

// eval runs source through the whole pipeline. Tree printing and diagram
// export happen before evaluation and never change its outcome.
func (s *session) eval(source string, out io.Writer) (types.Value, error) {
	expr, err := s.compile(source)
	if err != nil {
		return nil, err
	}

	if s.style != "" {
		fmt.Fprintln(out, printer.Print(expr.Tree, s.style))
	}
	if s.exporter != nil {
		if err := s.exporter.Export(context.Background(), expr.Tree); err != nil {
			log.Printf("failed to export the syntax tree: %v", err)
		}
	}

	return s.evaluator.EvaluateValue(expr)
}

func runFile(s *session, path string, stdout, stderr io.Writer) int {
	script, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "could not read the script: %v\n", err)
		return exitNoInput
	}

	v, err := s.eval(string(script), stdout)
	if err != nil {
		fmt.Fprintln(stderr, report(err))
		return exitDataErr
	}
	fmt.Fprintln(stdout, v.String())
	return exitOK
}

func runManifest(opt *Option, stdout, stderr io.Writer) int {
	f, err := os.Open(opt.Args.Script)
	if err != nil {
		fmt.Fprintf(stderr, "could not read the manifest: %v\n", err)
		return exitNoInput
	}
	defer f.Close()

	m, err := manifest.ParseFile(opt.Args.Script, f)
	if err != nil {
		fmt.Fprintf(stderr, "could not parse the manifest: %v\n", err)
		return exitDataErr
	}

	rep, err := m.Run(context.Background(), opt.Parallelism)
	if err != nil {
		log.Printf("failed to run the manifest: %v", err)
		return exitSoftware
	}
	if err := dumpJSON(stdout, rep); err != nil {
		log.Printf("failed to dump manifest report: %v", err)
		return exitSoftware
	}
	if rep.Failed != 0 {
		return exitDataErr
	}
	return exitOK
}

// report formats err as the message followed by the offending source line.
func report(err error) string {
	var e *types.Error
	if errors.As(err, &e) {
		return e.Report()
	}
	return err.Error()
}

func serve(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if isTerminal(w) {
		opts = append(opts, json.Colorize(json.DefaultColorScheme))
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
