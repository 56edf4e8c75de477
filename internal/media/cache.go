package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar        = "FOLIO_CACHE_DIR"
	cacheSubdir        = "folio/images"
	cacheTTL           = 24 * time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 30 * time.Second
)

// Cache stores remote images on disk and revalidates them with conditional
// requests once they are older than a day.
type Cache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewCache creates the cache directory. An empty dir falls back to
// $FOLIO_CACHE_DIR, then to the user cache directory.
func NewCache(dir string, client *http.Client) (*Cache, error) {
	if dir == "" {
		dir = os.Getenv(cacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "folio-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

// ErrTooLarge reports a download bigger than MaxFileSize. Nothing is cached
// for it.
var ErrTooLarge = fmt.Errorf("download exceeds %d bytes", MaxFileSize)

// entry is the on-disk layout of one cached URL.
type entry struct {
	url     string
	file    string
	meta    string
	partial string
}

func (c *Cache) entryFor(imageURL string) entry {
	key := cacheKey(imageURL)
	return entry{
		url:     imageURL,
		file:    filepath.Join(c.dir, key+extensionOf(imageURL)),
		meta:    filepath.Join(c.dir, key+metaSuffix),
		partial: filepath.Join(c.dir, key+partialSuffix),
	}
}

// Fetch returns the local path of the image at imageURL, downloading it when
// missing or stale. A stale copy is served if revalidation fails.
func (c *Cache) Fetch(ctx context.Context, imageURL string) (string, error) {
	e := c.entryFor(imageURL)
	current, _ := os.Stat(e.file)
	if current != nil && current.Size() > 0 && time.Since(current.ModTime()) < cacheTTL {
		return e.file, nil
	}
	if current != nil && current.Size() == 0 {
		current = nil
	}

	meta, _ := readMeta(e.meta)
	err := c.refresh(ctx, e, meta, current)
	switch {
	case err == nil:
		return e.file, nil
	case current != nil:
		return e.file, nil
	default:
		return "", err
	}
}

// refresh revalidates or downloads e. current is the cached file, if any.
func (c *Cache) refresh(ctx context.Context, e entry, meta cacheMeta, current os.FileInfo) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return err
	}
	if current != nil {
		setIf(req, "If-None-Match", meta.ETag)
		setIf(req, "If-Modified-Since", meta.LastModified)
	}
	resumeFrom := partialSize(e.partial)
	if resumeFrom > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", resumeFrom))
		validator := meta.ETag
		if validator == "" {
			validator = meta.LastModified
		}
		setIf(req, "If-Range", validator)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current == nil {
			return c.refresh(ctx, e, cacheMeta{}, nil)
		}
		meta.CachedAt = time.Now().UTC()
		now := time.Now()
		_ = os.Chtimes(e.file, now, now)
		return writeMeta(e.meta, meta)
	case http.StatusOK:
		return c.store(resp, e, 0)
	case http.StatusPartialContent:
		return c.store(resp, e, resumeFrom)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("image download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
}

// store writes the response body after offset bytes already on disk and
// moves the finished file into place. Oversized or non-media bodies are
// discarded.
func (c *Cache) store(resp *http.Response, e entry, offset int64) error {
	if err := checkContentType(resp.Header.Get("Content-Type")); err != nil {
		_ = os.Remove(e.partial)
		return err
	}
	budget := MaxFileSize - offset
	if resp.ContentLength > budget {
		_ = os.Remove(e.partial)
		return ErrTooLarge
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if offset > 0 {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(e.partial, flags, 0o644)
	if err != nil {
		return err
	}
	written, err := io.Copy(file, io.LimitReader(resp.Body, budget+1))
	closeErr := file.Close()
	switch {
	case err != nil:
		return err
	case written > budget:
		_ = os.Remove(e.partial)
		return ErrTooLarge
	case closeErr != nil:
		return closeErr
	}
	if err := os.Rename(e.partial, e.file); err != nil {
		return err
	}

	return writeMeta(e.meta, cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         offset + written,
	})
}

// checkContentType accepts what Loader and the resume reader can decode.
// Servers that omit the header or send a generic binary type are trusted.
func checkContentType(header string) error {
	if header == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return fmt.Errorf("bad content type %q: %w", header, err)
	}
	switch mediaType {
	case "image/png", "image/jpeg", "image/gif", "image/webp", "application/pdf", "application/octet-stream":
		return nil
	}
	return fmt.Errorf("unsupported content type %s", mediaType)
}

func setIf(req *http.Request, key, value string) {
	if value != "" {
		req.Header.Set(key, value)
	}
}

func partialSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func cacheKey(imageURL string) string {
	sum := sha1.Sum([]byte(imageURL))
	return hex.EncodeToString(sum[:])
}

func extensionOf(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
