// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package typeset turns a generated LaTeX file into a PDF with latexmk and
// removes the intermediate files it leaves behind.
package typeset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdiddy/problemset/pkg/types"
)

const (
	defaultBinary = "latexmk"
	defaultEngine = "-xelatex"
)

// auxExtensions are the build files removed after a successful run. Each is
// joined to the LaTeX file's base name.
var auxExtensions = []string{
	".aux", ".log", ".fdb_latexmk", ".fls", ".toc",
	".out", ".synctex.gz", ".nav", ".snm", ".xdv",
}

// Report describes one typesetting run.
type Report struct {
	TeXPath string
	PDFPath string

	// Succeeded is false when the toolchain exited non-zero.
	Succeeded bool
	ExitCode  int

	// Output is the toolchain's combined stdout and stderr.
	Output string

	// Removed lists the intermediate files deleted after the run.
	Removed []string
}

// runner abstracts command execution for testing.
type runner interface {
	LookPath(file string) (string, error)

	// CombinedOutput runs name and returns its combined output and exit
	// code. err is set only when the command could not be run at all.
	CombinedOutput(ctx context.Context, name string, args ...string) (out []byte, code int, err error)
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, exitErr.ExitCode(), nil
	}
	if err != nil {
		return out, -1, err
	}
	return out, 0, nil
}

// Typesetter runs the external LaTeX toolchain.
type Typesetter struct {
	cfg types.TypesetConfig
	run runner
}

// New returns a Typesetter for cfg.
func New(cfg types.TypesetConfig) *Typesetter {
	return newTypesetter(cfg, osRunner{})
}

func newTypesetter(cfg types.TypesetConfig, r runner) *Typesetter {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if cfg.Engine == "" {
		cfg.Engine = defaultEngine
	}
	return &Typesetter{cfg: cfg, run: r}
}

// Available reports whether the configured binary is on PATH.
func (t *Typesetter) Available() bool {
	_, err := t.run.LookPath(t.cfg.Binary)
	return err == nil
}

// Typeset compiles texPath into the directory of outputPath. A non-zero
// exit is not an error: the combined output is copied to w and the report
// marks the failure, leaving intermediate files for inspection. On success
// a confirmation naming outputPath is written to w and intermediate files
// are removed unless KeepArtifacts is set. The returned error is reserved
// for a toolchain that could not be started.
func (t *Typesetter) Typeset(ctx context.Context, texPath, outputPath string, w io.Writer) (Report, error) {
	dir := filepath.Dir(outputPath)
	args := []string{
		t.cfg.Engine,
		"-interaction=nonstopmode",
		"-output-directory=" + dir,
		texPath,
	}

	out, code, err := t.run.CombinedOutput(ctx, t.cfg.Binary, args...)
	if err != nil {
		return Report{}, fmt.Errorf("running %s: %w", t.cfg.Binary, err)
	}

	report := Report{
		TeXPath:   texPath,
		PDFPath:   outputPath,
		Succeeded: code == 0,
		ExitCode:  code,
		Output:    string(out),
	}

	if !report.Succeeded {
		fmt.Fprint(w, report.Output)
		if !strings.HasSuffix(report.Output, "\n") {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s exited with status %d; build files kept in %s\n", t.cfg.Binary, code, dir)
		return report, nil
	}

	fmt.Fprintf(w, "PDF saved to %s\n", outputPath)

	if !t.cfg.KeepArtifacts {
		removed, err := Cleanup(dir, texPath)
		report.Removed = removed
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// Cleanup deletes the intermediate build files for texPath from dir and
// returns the paths it removed. Missing files are not an error.
func Cleanup(dir, texPath string) ([]string, error) {
	stem := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))

	var removed []string
	for _, ext := range auxExtensions {
		path := filepath.Join(dir, stem+ext)
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, path)
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return removed, nil
}
