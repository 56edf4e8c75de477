package media

import (
	"context"
	"errors"
	"fmt"
	goimage "image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	// Register decoders for standard formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxFileSize caps how many bytes of a single image are read.
const MaxFileSize = 8 << 20

// ErrEmptyRef is returned for blank image references.
var ErrEmptyRef = errors.New("empty image reference")

// Loader resolves image references to decoded images. Remote references go
// through the disk cache, absolute paths are read from disk, and everything
// else is read from the assets filesystem.
type Loader struct {
	assets fs.FS
	cache  *Cache
	logger *zap.Logger
}

func NewLoader(assets fs.FS, cache *Cache, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{assets: assets, cache: cache, logger: logger}
}

// WithAssets returns a loader reading relative references from assets.
func (l *Loader) WithAssets(assets fs.FS) *Loader {
	clone := *l
	clone.assets = assets
	return &clone
}

func (l *Loader) Load(ctx context.Context, ref string) (goimage.Image, error) {
	if ref == "" {
		return nil, ErrEmptyRef
	}
	rc, err := l.open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", ref, err)
	}
	defer rc.Close()
	img, _, err := goimage.Decode(io.LimitReader(rc, MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ref, err)
	}
	return img, nil
}

func (l *Loader) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	switch {
	case isRemote(ref):
		if l.cache == nil {
			return nil, errors.New("remote images need a cache")
		}
		local, err := l.cache.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		return os.Open(local)
	case filepath.IsAbs(ref):
		return os.Open(ref)
	case l.assets != nil:
		return l.assets.Open(filepath.ToSlash(ref))
	default:
		return os.Open(ref)
	}
}

// Result is the outcome of loading one reference.
type Result struct {
	Ref   string
	Image goimage.Image
	Err   error
}

// Preload decodes refs concurrently, at most limit at a time. Failures are
// reported per reference; the returned error is only ever ctx.Err().
func (l *Loader) Preload(ctx context.Context, refs []string, limit int) (map[string]Result, error) {
	if limit <= 0 {
		limit = 4
	}
	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(refs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, ref := range uniq(refs) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := l.Load(gctx, ref)
			if err != nil {
				l.logger.Warn("image load failed", zap.String("ref", ref), zap.Error(err))
			}
			mu.Lock()
			results[ref] = Result{Ref: ref, Image: img, Err: err}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	l.logger.Debug("images preloaded", zap.Int("count", len(results)))
	return results, nil
}

func uniq(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
