package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/okcodes/tauri-updater/internal/domain/release"
	"github.com/okcodes/tauri-updater/internal/logger"
)

// DefaultFilePermissions is applied to written manifest files.
const DefaultFilePermissions os.FileMode = 0o644

// defaultDirPermissions is applied to directories created for the output path.
const defaultDirPermissions os.FileMode = 0o755

var (
	// ErrNotFound is returned when the manifest file does not exist yet.
	ErrNotFound = errors.New("manifest not found")
	// ErrFileExists is returned when publishing over an existing file without overwrite.
	ErrFileExists = errors.New("manifest file already exists")
)

// FileRepository persists an encoded manifest to a single file.
type FileRepository struct {
	// fs is the filesystem the manifest is written to.
	fs afero.Fs
	// path is the location of the manifest file.
	path string
	// overwrite allows Publish to replace an existing file.
	overwrite bool
}

// NewFileRepository creates a repository that reads and writes the manifest at path on fs.
// A nil fs means the operating system filesystem. Publish replaces an existing
// file only when overwrite is set.
func NewFileRepository(fs afero.Fs, path string, overwrite bool) *FileRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &FileRepository{
		fs:        fs,
		path:      filepath.Clean(path),
		overwrite: overwrite,
	}
}

// Publish implements the assembler publisher contract. The file name is fixed
// by the repository path. An existing file is replaced only with overwrite set;
// a file that cannot be decoded as a manifest is never replaced.
func (r *FileRepository) Publish(ctx context.Context, _ string, data []byte) error {
	previous, err := r.Load(ctx)

	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return fmt.Errorf("inspect %s: %w", r.path, err)
	case !r.overwrite:
		return fmt.Errorf("%s holds version %q: %w", r.path, previous.Version, ErrFileExists)
	default:
		logger.InfoKV(ctx, "Replacing manifest file", "path", r.path, "previous_version", previous.Version)
	}

	if err = r.save(data); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote manifest file", "path", r.path, "size", len(data))

	return nil
}

// Load reads and decodes the manifest.
func (r *FileRepository) Load(_ context.Context) (*release.FinalManifest, error) {
	contents, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	return Decode(contents)
}

// save writes encoded manifest bytes, creating parent directories.
func (r *FileRepository) save(data []byte) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := r.fs.MkdirAll(dir, defaultDirPermissions); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}

	if err := afero.WriteFile(r.fs, r.path, data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest file: %w", err)
	}

	return nil
}
