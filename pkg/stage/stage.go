// Package stage compiles the two programmable stages of the viewer from
// their source documents: the render stage, which describes the scene the
// path tracing kernel draws, and the draw stage, which configures how the
// accumulated image is resolved for display.
//
// Sources are JSON documents. Built-in defaults are embedded in the binary
// and can be replaced by files at startup.
package stage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/pathview/pkg/render"
	"github.com/taigrr/pathview/pkg/trace"
)

// Stage names.
const (
	RenderStage = "render"
	DrawStage   = "draw"
)

const builtin = "builtin"

var (
	//go:embed defaults/render.json
	defaultRender []byte

	//go:embed defaults/draw.json
	defaultDraw []byte
)

// Source is the text of one stage.
type Source struct {
	Name   string // RenderStage or DrawStage
	Text   []byte
	Dir    string // base for relative asset paths
	Origin string // file path, or "builtin"
}

// Default returns the embedded source of the named stage.
func Default(name string) (Source, error) {
	switch name {
	case RenderStage:
		return Source{Name: name, Text: defaultRender, Dir: ".", Origin: builtin}, nil
	case DrawStage:
		return Source{Name: name, Text: defaultDraw, Dir: ".", Origin: builtin}, nil
	}
	return Source{}, fmt.Errorf("unknown stage %q", name)
}

// LoadFile reads the named stage from path.
func LoadFile(name, path string) (Source, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s stage: %w", name, err)
	}
	return Source{Name: name, Text: text, Dir: filepath.Dir(path), Origin: path}, nil
}

// Resolve returns the stage at path, or the built-in one when path is empty.
func Resolve(name, path string) (Source, error) {
	if path == "" {
		return Default(name)
	}
	return LoadFile(name, path)
}

// CompileError carries the diagnostics of a stage that failed to compile.
type CompileError struct {
	Stage       string
	Origin      string
	Diagnostics []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s stage (%s): %s", e.Stage, e.Origin, strings.Join(e.Diagnostics, "; "))
}

// Compile builds both stages. The first failure is returned as a
// *CompileError.
func Compile(renderSrc, drawSrc Source) (render.Kernel, render.Presenter, error) {
	kernel, err := CompileRender(renderSrc)
	if err != nil {
		return nil, nil, err
	}
	presenter, err := CompileDraw(drawSrc)
	if err != nil {
		return nil, nil, err
	}
	return kernel, presenter, nil
}

// diagnostics collects semantic errors so a single compile reports all of
// them.
type diagnostics struct {
	src   Source
	lines []string
}

func (d *diagnostics) addf(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

func (d *diagnostics) err() error {
	if len(d.lines) == 0 {
		return nil
	}
	return &CompileError{Stage: d.src.Name, Origin: d.src.Origin, Diagnostics: d.lines}
}

// decode parses src strictly into v. Syntax errors are reported with their
// line and column.
func decode(src Source, v any) error {
	dec := json.NewDecoder(bytes.NewReader(src.Text))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err == nil {
		if _, extra := dec.Token(); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after the document")
		}
	}
	if err == nil {
		return nil
	}

	var (
		syntax *json.SyntaxError
		typ    *json.UnmarshalTypeError
		diag   string
	)
	switch {
	case errors.As(err, &syntax):
		line, col := position(src.Text, syntax.Offset)
		diag = fmt.Sprintf("%d:%d: %v", line, col, syntax)
	case errors.As(err, &typ):
		line, col := position(src.Text, typ.Offset)
		diag = fmt.Sprintf("%d:%d: %s: cannot use %s as %v", line, col, typ.Field, typ.Value, typ.Type)
	case errors.Is(err, io.EOF):
		diag = "empty document"
	default:
		diag = err.Error()
	}
	return &CompileError{Stage: src.Name, Origin: src.Origin, Diagnostics: []string{diag}}
}

// position converts a byte offset into a 1-based line and column.
func position(text []byte, offset int64) (line, col int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	before := text[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

// CompileDraw builds the presentation stage.
func CompileDraw(src Source) (*trace.Tonemapper, error) {
	var doc drawDoc
	if err := decode(src, &doc); err != nil {
		return nil, err
	}

	d := &diagnostics{src: src}
	tm := &trace.Tonemapper{Exposure: doc.Exposure, Gamma: trace.DefaultGamma, Operator: trace.ACES}
	if doc.Tonemap != "" {
		op, err := trace.ParseOperator(doc.Tonemap)
		if err != nil {
			d.addf("tonemap: %v", err)
		}
		tm.Operator = op
	}
	if doc.Gamma != nil {
		if *doc.Gamma <= 0 {
			d.addf("gamma: must be positive, got %v", *doc.Gamma)
		}
		tm.Gamma = *doc.Gamma
	}
	if err := d.err(); err != nil {
		return nil, err
	}

	render.Logger().Info("stage compiled", "stage", src.Name, "origin", src.Origin,
		"tonemap", tm.Operator, "exposure", tm.Exposure, "gamma", tm.Gamma)
	return tm, nil
}
