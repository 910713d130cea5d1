// Package importer loads karaoke files from a local drop directory into
// object storage and the catalog. Files are named "Artist - Title.ext";
// anything else is skipped. Entries go through the catalog repository so
// imports obey the same validation as API uploads.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"OnAirFM/logger"
	"OnAirFM/model"
	"OnAirFM/repository"
	"OnAirFM/storage"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

var mimeByExtension = map[string]string{
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".mp4": "audio/mp4",
	".wav": "audio/wav",
	".ogg": "audio/ogg",
}

// Importer pushes karaoke files from a directory into storage and the catalog.
type Importer struct {
	karaokeRepo repository.KaraokeRepository
	language    string // 2-letter default for imported entries
}

// New creates an Importer. language is applied to every imported entry.
func New(karaokeRepo repository.KaraokeRepository, language string) *Importer {
	return &Importer{karaokeRepo: karaokeRepo, language: language}
}

// parseFilename splits "Artist - Title.ext" into its parts. ok is false for
// names that don't follow the convention.
func parseFilename(name string) (artist, title string, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.SplitN(base, " - ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	artist = strings.TrimSpace(parts[0])
	title = strings.TrimSpace(parts[1])
	if artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}

// ImportDir walks dir non-recursively and imports every eligible file.
// Returns the number of imported entries; individual failures are logged and
// skipped so one bad file does not abort a batch.
func (i *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read import directory %s: %w", dir, err)
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := i.ImportFile(ctx, filepath.Join(dir, entry.Name())); err != nil {
			logger.Warn("skipping import file",
				logger.String("file", entry.Name()),
				logger.ErrorField(err))
			continue
		}
		imported++
	}
	return imported, nil
}

// ImportFile uploads one file to storage and creates its catalog entry.
func (i *Importer) ImportFile(ctx context.Context, path string) error {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	mimeType, ok := mimeByExtension[ext]
	if !ok {
		return fmt.Errorf("unsupported file extension %q", ext)
	}

	artist, title, ok := parseFilename(name)
	if !ok {
		return fmt.Errorf("filename %q does not match \"Artist - Title.ext\"", name)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	key := "karaoke/" + uuid.NewString() + ext
	if err := storage.Upload(ctx, key, f, info.Size(), mimeType); err != nil {
		return err
	}

	file := &model.KaraokeFile{
		Title:    title,
		Artist:   artist,
		Language: i.language,
		FileURL:  "/files/" + key,
		FileSize: info.Size(),
		MimeType: mimeType,
		IsActive: true,
	}

	id, err := i.karaokeRepo.Create(ctx, file)
	if err != nil {
		// Keep storage consistent with the catalog.
		if rmErr := storage.Remove(ctx, key); rmErr != nil {
			logger.Error("failed to remove orphaned object after import failure",
				logger.String("key", key), logger.ErrorField(rmErr))
		}
		return fmt.Errorf("failed to create catalog entry for %s: %w", name, err)
	}

	logger.Info("imported karaoke file",
		logger.Int64("id", id),
		logger.String("title", title),
		logger.String("artist", artist))
	return nil
}

// Watch imports files as they appear in dir until ctx is cancelled. Existing
// files are imported first.
func (i *Importer) Watch(ctx context.Context, dir string) error {
	if _, err := i.ImportDir(ctx, dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("watching import directory", logger.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Create covers both new files and finished renames into the dir.
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := i.ImportFile(ctx, event.Name); err != nil {
				logger.Warn("skipping watched file",
					logger.String("file", event.Name),
					logger.ErrorField(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", logger.ErrorField(err))
		}
	}
}
