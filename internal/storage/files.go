package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/h0ck3ystyx/recrafter/internal/analyzer"
	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// FileStore persists crawl output under a base directory:
//
//	pages/     mirrored page HTML
//	assets/    downloaded assets, bucketed by category
//	metadata/  sitemap.json, pages.json, crawl_summary.json
//
// Every file is written atomically (temp file + rename), so a crash never
// leaves a partially written page or record.
type FileStore struct {
	cfg    config.StorageConfig
	base   string
	logger *slog.Logger
}

// NewFileStore creates a FileStore rooted at the configured output
// directory and builds the directory skeleton.
func NewFileStore(cfg config.StorageConfig, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		cfg:    cfg,
		base:   cfg.OutputDir,
		logger: logger.With("component", "storage"),
	}

	dirs := []string{
		filepath.Join(s.base, pagesDir),
		filepath.Join(s.base, metadataDir),
	}
	for _, sub := range assetSubdirs {
		dirs = append(dirs, filepath.Join(s.base, assetsDir, sub))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &types.StorageError{Path: dir, Err: err}
		}
	}
	return s, nil
}

// SavePage writes the page HTML and returns its path relative to the output
// directory. With clean_html enabled, scripts, styles, and ad markup are
// stripped first.
func (s *FileStore) SavePage(page *types.Page) (string, error) {
	relPath := pagePath(page.URL)
	body := page.HTML
	if s.cfg.CleanHTML {
		body = analyzer.CleanHTML(body)
	}
	if err := s.writeAtomic(relPath, body); err != nil {
		return "", err
	}
	s.logger.Debug("page saved", "url", page.URL, "path", relPath)
	return relPath, nil
}

// SaveAsset writes an asset body and fills in the asset's size, checksum,
// and download timestamp. Returns the relative path.
func (s *FileStore) SaveAsset(page *types.Page, asset *types.Asset, body []byte) (string, error) {
	relPath := assetPath(asset.URL)
	if err := s.writeAtomic(relPath, body); err != nil {
		return "", err
	}

	sum := sha256.Sum256(body)
	asset.Size = int64(len(body))
	asset.Checksum = hex.EncodeToString(sum[:])
	asset.DownloadedAt = time.Now()

	s.logger.Debug("asset saved", "url", asset.URL, "path", relPath, "size", asset.Size)
	return relPath, nil
}

// SaveResult writes the sitemap record, the full page metadata, and the run
// summary.
func (s *FileStore) SaveResult(result *types.CrawlResult) error {
	if err := s.writeJSON(filepath.Join(metadataDir, "sitemap.json"), NewSiteMapRecord(result.SiteMap)); err != nil {
		return err
	}
	if err := s.writeJSON(filepath.Join(metadataDir, "pages.json"), result.SiteMap.Pages); err != nil {
		return err
	}
	if err := s.writeJSON(filepath.Join(metadataDir, "crawl_summary.json"), NewCrawlSummary(result)); err != nil {
		return err
	}
	s.logger.Info("metadata saved", "dir", filepath.Join(s.base, metadataDir))
	return nil
}

// LoadSiteMap reconstructs a SiteMap from a previous run's metadata. Full
// page records come from pages.json; each page's HTML is reloaded from its
// local path so analysis can recompute signatures. Pages whose HTML file is
// missing stay in the set with empty HTML.
func (s *FileStore) LoadSiteMap() (*types.SiteMap, error) {
	var record SiteMapRecord
	if err := s.readJSON(filepath.Join(metadataDir, "sitemap.json"), &record); err != nil {
		return nil, err
	}

	var pages []*types.Page
	if err := s.readJSON(filepath.Join(metadataDir, "pages.json"), &pages); err != nil {
		return nil, err
	}

	for _, p := range pages {
		if p.LocalPath == "" {
			continue
		}
		body, err := os.ReadFile(filepath.Join(s.base, filepath.FromSlash(p.LocalPath)))
		if err != nil {
			s.logger.Warn("page body missing", "url", p.URL, "path", p.LocalPath)
			continue
		}
		p.HTML = body
	}

	sm := &types.SiteMap{
		BaseURL:   record.BaseURL,
		CreatedAt: record.CreatedAt,
		Pages:     pages,
	}
	s.logger.Info("sitemap loaded", "base_url", sm.BaseURL, "pages", len(sm.Pages))
	return sm, nil
}

// Dir returns the base output directory.
func (s *FileStore) Dir() string { return s.base }

// writeAtomic writes data to a path relative to the base directory via a
// temp file and rename.
func (s *FileStore) writeAtomic(relPath string, data []byte) error {
	full := filepath.Join(s.base, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &types.StorageError{Path: full, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".tmp-*")
	if err != nil {
		return &types.StorageError{Path: full, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &types.StorageError{Path: full, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &types.StorageError{Path: full, Err: err}
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return &types.StorageError{Path: full, Err: err}
	}
	return nil
}

func (s *FileStore) writeJSON(relPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &types.StorageError{Path: relPath, Err: fmt.Errorf("marshal: %w", err)}
	}
	return s.writeAtomic(relPath, append(data, '\n'))
}

func (s *FileStore) readJSON(relPath string, v any) error {
	full := filepath.Join(s.base, relPath)
	data, err := os.ReadFile(full)
	if err != nil {
		return &types.StorageError{Path: full, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &types.StorageError{Path: full, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	return nil
}
