//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func cli(args ...string) error {
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Extract builds the CLI and extracts the content model from the sources
// named in problemset.yaml (or PROBLEMSET_EXTRACTION_SOURCES).
func Extract() error {
	mg.Deps(Init, Build)
	return cli("extract")
}

// Generate builds the CLI and typesets the configured selection to PDF.
func Generate() error {
	mg.Deps(Init, Build)
	return cli("generate", "--pdf")
}

// Preview lists the configured selection as plain text.
func Preview() error {
	mg.Deps(Build)
	return cli("generate", "--preview")
}

// Index builds the CLI and refreshes the catalog from the content model.
func Index() error {
	mg.Deps(Build)
	return cli("catalog", "index")
}

// Clean removes the built binary and generated output.
func Clean() error {
	for _, dir := range []string{binDir, "out"} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		fmt.Println("  removed", dir)
	}
	return nil
}
