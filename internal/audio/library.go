package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type cacheKeyer interface {
	CacheKey() string
}

// formatter is implemented by providers that write a fixed container
// regardless of the requested file extension
type formatter interface {
	Format(requested string) string
}

// clipGenerator is implemented by providers that delegate to other providers
// and report which one produced the clip
type clipGenerator interface {
	GenerateClip(ctx context.Context, text, outputFile string) (Provider, error)
}

func formatOf(provider Provider, requested string) string {
	if f, ok := provider.(formatter); ok {
		return f.Format(requested)
	}
	return requested
}

func generateClip(ctx context.Context, provider Provider, text, outputFile string) (Provider, error) {
	if g, ok := provider.(clipGenerator); ok {
		return g.GenerateClip(ctx, text, outputFile)
	}
	return provider, provider.GenerateAudio(ctx, text, outputFile)
}

// ContentType returns the media type of a cached clip by its extension
func ContentType(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "wav":
		return "audio/wav"
	case "opus", "ogg":
		return "audio/ogg"
	case "aac":
		return "audio/aac"
	case "flac":
		return "audio/flac"
	default:
		return "audio/mpeg"
	}
}

// Library caches reference clips generated by a provider
type Library struct {
	provider Provider
	dir      string
	format   string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLibrary creates a clip cache rooted at dir
func NewLibrary(provider Provider, dir, format string) (*Library, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if format == "" {
		format = "mp3"
	}

	return &Library{
		provider: provider,
		dir:      dir,
		format:   strings.TrimPrefix(format, "."),
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// Path returns the cached clip for text, generating it on first use. The
// clip is stored under the key and format of the provider that made it, so a
// fallback clip never shadows the primary's.
func (l *Library) Path(ctx context.Context, text string) (string, error) {
	if err := ValidateText(text); err != nil {
		return "", err
	}

	path := l.clipPath(text, l.provider)

	lock := l.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write next to the final path so a failed call never leaves a partial clip
	tmp := path + ".tmp." + l.format
	used, err := generateClip(ctx, l.provider, text, tmp)
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to generate reference audio: %w", err)
	}

	final := l.clipPath(text, used)
	if err := os.MkdirAll(filepath.Dir(final), 0755); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to store reference audio: %w", err)
	}

	return final, nil
}

// Name returns the underlying provider name
func (l *Library) Name() string {
	return l.provider.Name()
}

// Clear removes all cached clips
func (l *Library) Clear() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(l.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns cache statistics
func (l *Library) Stats() (fileCount int, totalSize int64, err error) {
	err = filepath.Walk(l.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
			totalSize += info.Size()
		}
		return nil
	})

	return fileCount, totalSize, err
}

func (l *Library) clipPath(text string, provider Provider) string {
	key := provider.Name()
	if k, ok := provider.(cacheKeyer); ok {
		key = k.CacheKey()
	}

	h := md5.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	h.Write([]byte(key))
	hash := hex.EncodeToString(h.Sum(nil))

	// First two chars as subdirectory
	return filepath.Join(l.dir, hash[:2], hash[2:]+"."+formatOf(provider, l.format))
}

func (l *Library) lockFor(path string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[path] = lock
	}
	return lock
}
