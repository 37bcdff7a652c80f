package storage

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Output directory layout under the configured base directory.
const (
	pagesDir    = "pages"
	assetsDir   = "assets"
	metadataDir = "metadata"
)

// Asset subdirectories by category.
var assetSubdirs = []string{"images", "css", "js", "fonts", "documents", "other"}

// pagePath maps a page URL to its relative path under pages/. The root page
// becomes index.html; extension-less paths get an .html suffix; directory
// paths get an index.html inside.
func pagePath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return filepath.Join(pagesDir, "index.html")
	}

	p := strings.TrimPrefix(u.Path, "/")
	switch {
	case p == "":
		p = "index.html"
	case strings.HasSuffix(p, "/"):
		p = path.Join(p, "index.html")
	case !strings.Contains(path.Base(p), "."):
		p += ".html"
	}

	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = sanitizeFilename(part)
	}
	return filepath.Join(append([]string{pagesDir}, parts...)...)
}

// assetPath maps an asset URL to its relative path under assets/<category>/.
// Assets without a usable filename get a stable hash-derived one.
func assetPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	filename := ""
	if err == nil {
		filename = path.Base(u.Path)
	}
	if filename == "" || filename == "." || filename == "/" {
		filename = fmt.Sprintf("asset_%04d%s", urlHash(rawURL)%10000, urlExtension(rawURL))
	}
	return filepath.Join(assetsDir, categorizeAssetURL(rawURL), sanitizeFilename(filename))
}

// categorizeAssetURL buckets an asset into its subdirectory by extension.
func categorizeAssetURL(rawURL string) string {
	switch urlExtension(rawURL) {
	case ".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico":
		return "images"
	case ".css":
		return "css"
	case ".js", ".mjs":
		return "js"
	case ".woff", ".woff2", ".ttf", ".otf", ".eot":
		return "fonts"
	case ".pdf", ".doc", ".docx", ".xls", ".xlsx":
		return "documents"
	default:
		return "other"
	}
}

func urlExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func urlHash(rawURL string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(rawURL))
	return h.Sum32()
}

// sanitizeFilename strips characters that are unsafe on common filesystems.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"<", "_", ">", "_", ":", "_", `"`, "_",
		"\\", "_", "|", "_", "?", "_", "*", "_",
	)
	name = replacer.Replace(name)
	if len(name) > 200 {
		name = name[:200]
	}
	return name
}
