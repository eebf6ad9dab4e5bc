package flowchart

import (
	"context"
	"fmt"
	"os/exec"

	"dndtools/internal/domain"
)

// Graphviz renders DOT sources to raster/print formats by invoking the
// external "dot" binary. Absence of the binary is an expected condition
// reported as domain.ErrRenderUnavailable, not a fault.
type Graphviz struct {
	binary string
}

// NewGraphviz locates the dot binary on PATH.
func NewGraphviz() *Graphviz {
	path, err := exec.LookPath("dot")
	if err != nil {
		return &Graphviz{}
	}
	return &Graphviz{binary: path}
}

// Available reports whether the dot binary was found.
func (g *Graphviz) Available() bool {
	return g.binary != ""
}

// Render converts the DOT file at dotPath into a PNG and a PDF. It returns
// domain.ErrRenderUnavailable when Graphviz is not installed and wraps the
// command error when invocation fails (e.g. malformed DOT).
func (g *Graphviz) Render(ctx context.Context, dotPath, pngPath, pdfPath string) error {
	if g.binary == "" {
		return domain.ErrRenderUnavailable
	}
	if out, err := exec.CommandContext(ctx, g.binary, "-Tpng", dotPath, "-o", pngPath).CombinedOutput(); err != nil {
		return fmt.Errorf("dot -Tpng: %v: %s", err, out)
	}
	if out, err := exec.CommandContext(ctx, g.binary, "-Tpdf", dotPath, "-o", pdfPath).CombinedOutput(); err != nil {
		return fmt.Errorf("dot -Tpdf: %v: %s", err, out)
	}
	return nil
}
