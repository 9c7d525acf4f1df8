package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	fsys fs.FS
}

var _ config.Loader = (*Loader)(nil)

// NewLoader returns a loader reading from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load parses every .hcl file under paths (files or directories inside the
// loader's fs) and merges their blocks into one model. Paths that do not
// exist are skipped; with no paths the whole fs is read.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	if len(paths) == 0 {
		paths = []string{"."}
	}
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()
	graphSources := make(map[string]string)

	for _, file := range files {
		src, err := fs.ReadFile(l.fsys, file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, g := range root.Graphs {
			if prev, dup := graphSources[g.Name]; dup {
				return nil, nil, fmt.Errorf("graph '%s' in %s is already defined in %s", g.Name, file, prev)
			}
			graphSources[g.Name] = file
			translated, diags := translateGraph(g, file)
			if diags.HasErrors() {
				return nil, nil, fmt.Errorf("failed to decode graph '%s' in %s: %w", g.Name, file, diags)
			}
			model.Graphs = append(model.Graphs, translated)
		}
		for _, r := range root.Races {
			model.Catalog.Races = append(model.Catalog.Races, translateRace(r))
		}
		for _, c := range root.Classes {
			model.Catalog.Classes = append(model.Catalog.Classes, translateClass(c))
		}
		for _, b := range root.Lore {
			p, err := translateLore(b, file)
			if err != nil {
				return nil, nil, err
			}
			model.Lore = append(model.Lore, p)
		}
	}

	logger.Debug("HCL loading complete.",
		"graphs", len(model.Graphs),
		"races", len(model.Catalog.Races),
		"classes", len(model.Catalog.Classes),
		"lore", len(model.Lore),
	)
	return model, NewConverter(), nil
}

// findAllHCLFiles returns a de-duplicated, walk-ordered list of .hcl files.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, p := range paths {
		p = path.Clean(strings.TrimPrefix(p, "./"))
		info, err := fs.Stat(l.fsys, p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", p, err)
		}
		if !info.IsDir() {
			if path.Ext(p) == ".hcl" {
				add(p)
			}
			continue
		}
		err = fs.WalkDir(l.fsys, p, func(fp string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && path.Ext(fp) == ".hcl" {
				add(fp)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return all, nil
}

// attributes flattens an arguments block into expressions keyed by name.
// Nested blocks are not arguments and are reported as errors.
func attributes(b *argsBlock) (map[string]hcl.Expression, hcl.Diagnostics) {
	if b == nil || b.Body == nil {
		return nil, nil
	}
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		out[name] = attr.Expr
	}
	return out, nil
}
