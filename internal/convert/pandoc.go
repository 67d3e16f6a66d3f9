// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdiddy/problemset/internal/container"
	"github.com/pdiddy/problemset/pkg/types"
)

const (
	defaultPandocBinary = "pandoc"
	defaultPandocImage  = "pandoc/core:latest"
)

// pandocArgs convert HTML to LaTeX, passing TeX math through untranslated.
var pandocArgs = []string{"--from=html", "--to=latex", "--mathjax"}

// PandocConverter converts fragments by piping them through pandoc, either
// the host binary or a pandoc image, via a container.Runtime injected at
// construction time.
type PandocConverter struct {
	runtime container.Runtime
	image   string
}

// NewPandocConverter creates a converter on rt. For the host runtime the
// configured binary is used, otherwise the configured image. It verifies
// that the binary or image exists before returning.
func NewPandocConverter(rt container.Runtime, cfg types.ConversionConfig) (*PandocConverter, error) {
	image := cfg.PandocImage
	if image == "" {
		image = defaultPandocImage
	}
	if rt.Name() == container.NameHost {
		image = cfg.PandocBinary
		if image == "" {
			image = defaultPandocBinary
		}
	}

	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pandoc not available in %s: %w", rt.Name(), err)
	}
	return &PandocConverter{runtime: rt, image: image}, nil
}

// Convert pipes markup through pandoc and returns the LaTeX it prints.
func (p *PandocConverter) Convert(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	var out bytes.Buffer
	if err := p.runtime.Run(p.image, pandocArgs, strings.NewReader(markup), &out); err != nil {
		return "", fmt.Errorf("converting with pandoc: %w", err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("pandoc produced empty output for %d bytes of input", len(markup))
	}
	return out.String(), nil
}
