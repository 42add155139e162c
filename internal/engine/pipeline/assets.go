package pipeline

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// targetPathAttr places copied files in a subdirectory of dist.
const targetPathAttr = "data-target-path"

func (p *HTML) assetNode(a asset) node {
	n := node{kind: string(a.kind), name: string(a.kind) + " " + a.href}
	switch a.kind {
	case KindCSS:
		n.run = p.runCSS(a)
	case KindJS:
		n.run = p.runJS(a)
	case KindIcon:
		n.run = p.runIcon(a)
	case KindInline:
		n.run = runInline(a)
	case KindCopyFile, KindCopyDir:
		n.run = p.runCopy(a)
	}
	return n
}

func (p *HTML) runCSS(a asset) runFunc {
	return func(ctx context.Context, _ io.Writer) (Output, error) {
		urls, err := bundle(ctx, p.cfg, p.deps.Writer, a)
		if err != nil {
			return nil, err
		}
		return &stylesheetOutput{
			elem:  a.elem,
			hrefs: withExt(urls, ".css"),
			attrs: passthrough(a.elem),
		}, nil
	}
}

func (p *HTML) runJS(a asset) runFunc {
	return func(ctx context.Context, _ io.Writer) (Output, error) {
		urls, err := bundle(ctx, p.cfg, p.deps.Writer, a)
		if err != nil {
			return nil, err
		}
		out := &scriptOutput{
			elem:   a.elem,
			styles: withExt(urls, ".css"),
			attrs:  passthrough(a.elem, "type"),
		}
		if scripts := withExt(urls, ".js"); len(scripts) > 0 {
			out.src = scripts[0]
		}
		return out, nil
	}
}

func (p *HTML) runIcon(a asset) runFunc {
	return func(ctx context.Context, _ io.Writer) (Output, error) {
		data, err := readAsset(a)
		if err != nil {
			return nil, err
		}
		rel, err := p.deps.Writer.WriteHashed(ctx, filepath.Base(a.path), data)
		if err != nil {
			return nil, err
		}
		return &iconOutput{
			elem:  a.elem,
			href:  p.cfg.PublicURL + rel,
			attrs: passthrough(a.elem),
		}, nil
	}
}

func runInline(a asset) runFunc {
	return func(_ context.Context, _ io.Writer) (Output, error) {
		typ, _ := attr(a.elem, "type")
		tag, attrs, err := inlineTag(typ, a.path)
		if err != nil {
			return nil, zerr.With(err, "href", a.href)
		}
		data, err := readAsset(a)
		if err != nil {
			return nil, err
		}
		return &inlineOutput{elem: a.elem, tag: tag, attrs: attrs, content: string(data)}, nil
	}
}

// inlineTag picks the element an inlined file becomes, from the type
// attribute when set and from the file extension otherwise.
func inlineTag(typ, file string) (atom.Atom, []html.Attribute, error) {
	kind := strings.ToLower(strings.TrimSpace(typ))
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
	}
	switch kind {
	case "css":
		return atom.Style, nil, nil
	case "js":
		return atom.Script, nil, nil
	case "mjs", "module":
		return atom.Script, []html.Attribute{{Key: "type", Val: "module"}}, nil
	default:
		return 0, nil, zerr.With(domain.ErrUnknownAssetKind, "type", kind)
	}
}

func (p *HTML) runCopy(a asset) runFunc {
	return func(ctx context.Context, _ io.Writer) (Output, error) {
		rel := filepath.Base(a.path)
		if target, ok := attr(a.elem, targetPathAttr); ok && target != "" {
			rel = filepath.Join(filepath.FromSlash(path.Clean(target)), rel)
		}

		var err error
		if a.kind == KindCopyDir {
			err = p.deps.Writer.CopyDir(ctx, a.path, rel)
		} else {
			_, err = p.deps.Writer.CopyFile(ctx, a.path, rel)
		}
		if err != nil {
			return nil, err
		}
		return &removeOutput{elem: a.elem}, nil
	}
}

func readAsset(a asset) ([]byte, error) {
	//nolint:gosec // Asset paths come from the project document
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetReadFailed.Error()), "path", a.path)
	}
	return data, nil
}

func withExt(urls []string, ext string) []string {
	var out []string
	for _, u := range urls {
		if path.Ext(u) == ext {
			out = append(out, u)
		}
	}
	return out
}
