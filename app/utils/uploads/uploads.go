package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// URLPrefix is the path under which the server exposes the upload directory.
const URLPrefix = "uploads"

// Store keeps uploaded images on local disk. Saved paths are relative
// ("uploads/<name>") so they can be joined with the public base URL.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a collision-free name derived from the
// original file name and returns its relative path.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	base := slug.Make(strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename)))
	if base == "" {
		base = "image"
	}
	name := fmt.Sprintf("%s-%s%s", uuid.NewString(), base, ext)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	full := filepath.Join(s.dir, name)
	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	_, err = io.Copy(dst, file)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path.Join(URLPrefix, name), nil
}

// Remove deletes a file previously returned by Save. Missing files are ignored.
func (s *Store) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	name := filepath.Base(relPath)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
