package pipeline

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AssetKind is the rel value of an asset link.
type AssetKind string

const (
	// KindCSS bundles a stylesheet.
	KindCSS AssetKind = "css"
	// KindJS bundles a script as an ES module.
	KindJS AssetKind = "js"
	// KindIcon copies an icon under a content-hashed name.
	KindIcon AssetKind = "icon"
	// KindInline embeds the file contents in the document.
	KindInline AssetKind = "inline"
	// KindCopyFile copies a single file into dist.
	KindCopyFile AssetKind = "copy-file"
	// KindCopyDir copies a directory tree into dist.
	KindCopyDir AssetKind = "copy-dir"
)

var assetKinds = []AssetKind{KindCSS, KindJS, KindIcon, KindInline, KindCopyFile, KindCopyDir}

// asset is one <link data-loom> reference found in the document.
type asset struct {
	kind AssetKind
	href string
	path string
	elem *html.Node
}

// discover returns the asset links of doc in document order.
func discover(doc *html.Node, sourceDir string) ([]asset, error) {
	var assets []asset
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.DataAtom != atom.Link {
			continue
		}
		if _, ok := attr(n, domain.AssetAttr); !ok {
			continue
		}

		rel, _ := attr(n, "rel")
		kind := AssetKind(strings.ToLower(strings.TrimSpace(rel)))
		if !slices.Contains(assetKinds, kind) {
			return nil, zerr.With(domain.ErrUnknownAssetKind, "rel", rel)
		}

		href, ok := attr(n, "href")
		if !ok || strings.TrimSpace(href) == "" {
			return nil, zerr.With(domain.ErrMissingHref, "rel", rel)
		}

		assets = append(assets, asset{
			kind: kind,
			href: href,
			path: filepath.Join(sourceDir, filepath.FromSlash(strings.TrimPrefix(href, "/"))),
			elem: n,
		})
	}
	return assets, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// passthrough returns the attributes of n that the pipeline does not consume,
// in their original order.
func passthrough(n *html.Node, consumed ...string) []html.Attribute {
	var attrs []html.Attribute
	for _, a := range n.Attr {
		if a.Key == domain.AssetAttr || a.Key == "rel" || a.Key == "href" || slices.Contains(consumed, a.Key) {
			continue
		}
		attrs = append(attrs, a)
	}
	return attrs
}
