// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Directory is a Store backed by capture files in a single local
// directory. Subdirectories and dot-files are ignored.
type Directory struct {
	root   string
	logger *slog.Logger
}

// NewDirectory returns a Directory serving captures from root. The
// directory must exist.
func NewDirectory(root string, logger *slog.Logger) (*Directory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("session directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("session directory %s is not a directory", root)
	}
	return &Directory{root: root, logger: logger}, nil
}

// Root returns the directory path.
func (d *Directory) Root() string {
	return d.root
}

// List returns the capture files in the directory, newest first.
func (d *Directory) List(ctx context.Context) ([]SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.root, err)
	}

	sessions := make([]SessionInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if errors.Is(err, fs.ErrNotExist) {
			// Removed between ReadDir and Info.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		sessions = append(sessions, SessionInfo{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sortSessions(sessions)
	return sessions, nil
}

// Get reads and decompresses the named capture. If no file has
// exactly that name, the name with each compression suffix is tried.
func (d *Directory) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := []string{name}
	if CompressionOf(name) == CompressionNone {
		for _, c := range compressions {
			candidates = append(candidates, name+c.Suffix())
		}
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(filepath.Join(d.root, candidate))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading session %s: %w", candidate, err)
		}
		decoded, err := Decompress(CompressionOf(candidate), data)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", candidate, err)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Watch reports the names of captures created, written, removed, or
// renamed in the directory until ctx is cancelled. The returned
// channel is closed when watching stops. Slow receivers miss nothing
// but delay later events.
func (d *Directory) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(d.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", d.root, err)
	}

	changes := make(chan string)
	go func() {
		defer close(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				name := filepath.Base(event.Name)
				if strings.HasPrefix(name, ".") {
					continue
				}
				select {
				case changes <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.logger.Warn("session directory watch error", "directory", d.root, "error", err)
			}
		}
	}()
	return changes, nil
}
