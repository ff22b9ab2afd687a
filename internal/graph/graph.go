package graph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/karupanerura/lox-expression/internal/ast"
)

const (
	DOTFileName = "parse_tree.dot"
	SVGFileName = "parse_tree.svg"

	renderTimeout = 10 * time.Second
)

var ErrRendererUnavailable = errors.New("graphviz dot command is not available")

// RenderFunc converts DOT source into the given output format.
type RenderFunc func(ctx context.Context, format, dotCode string) ([]byte, error)

// Exporter writes parse tree diagrams into Dir.
type Exporter struct {
	Dir    string
	Render RenderFunc
}

func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Render: renderWithGraphviz}
}

// Export writes the DOT source of expr and then, when a renderer is
// available, the SVG rendering of it. The DOT file is written even if the
// rendering fails.
func (e *Exporter) Export(ctx context.Context, expr ast.Expr) error {
	dotCode := DOT(expr)

	dotPath := filepath.Join(e.Dir, DOTFileName)
	if err := os.WriteFile(dotPath, []byte(dotCode), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile(%q): %w", dotPath, err)
	}
	if e.Render == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()
	svg, err := e.Render(ctx, "svg", dotCode)
	if err != nil {
		return fmt.Errorf("render %s: %w", SVGFileName, err)
	}

	svgPath := filepath.Join(e.Dir, SVGFileName)
	if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile(%q): %w", svgPath, err)
	}
	return nil
}

func renderWithGraphviz(ctx context.Context, format, dotCode string) ([]byte, error) {
	bin, err := exec.LookPath("dot")
	if err != nil {
		return nil, ErrRendererUnavailable
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-T"+format)
	cmd.Stdin = strings.NewReader(dotCode)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("dot -T%s: %w: %s", format, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// DOT renders expr as a strict Graphviz digraph. Nodes are numbered in
// post-order; groupings add no node of their own.
func DOT(expr ast.Expr) string {
	b := &builder{}
	b.buf.WriteString("strict digraph parser_tree {\n")
	_, _ = ast.Walk[int](b, expr)
	b.buf.WriteString("}\n")
	return b.buf.String()
}

// builder is the mutable state of one DOT rendering.
type builder struct {
	sequence int
	buf      strings.Builder
}

var labelEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
)

func (b *builder) node(label string) int {
	id := b.sequence
	b.sequence++
	fmt.Fprintf(&b.buf, "\t%d [label=\"%s\"];\n", id, labelEscaper.Replace(label))
	return id
}

func (b *builder) edge(from, to int) {
	b.buf.WriteString("\t" + strconv.Itoa(from) + " -> " + strconv.Itoa(to) + ";\n")
}

func (b *builder) VisitBinary(expr *ast.Binary) (int, error) {
	left, _ := ast.Walk[int](b, expr.Left)
	right, _ := ast.Walk[int](b, expr.Right)

	id := b.node(expr.Operator.Lexeme)
	b.edge(id, left)
	b.edge(id, right)
	return id, nil
}

func (b *builder) VisitGrouping(expr *ast.Grouping) (int, error) {
	return ast.Walk[int](b, expr.Inner)
}

func (b *builder) VisitLiteral(expr *ast.Literal) (int, error) {
	return b.node(expr.Token.Lexeme), nil
}

func (b *builder) VisitUnary(expr *ast.Unary) (int, error) {
	operand, _ := ast.Walk[int](b, expr.Operand)

	id := b.node(expr.Operator.Lexeme)
	b.edge(id, operand)
	return id, nil
}
