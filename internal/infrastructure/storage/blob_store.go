// Package storage guarda las imágenes de producto sobre un afero.Fs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/domain"
)

var _ ports.BlobStore = (*FSBlobStore)(nil)

// allowedExt extensiones de imagen aceptadas.
var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// FSBlobStore implementa ports.BlobStore escribiendo en la raíz de fs.
// Cada archivo recibe un nombre uuid + extensión original; la URL es urlPrefix/<nombre>.
type FSBlobStore struct {
	fs        afero.Fs
	urlPrefix string
}

// NewFSBlobStore construye el almacén sobre fs (ej. afero.NewMemMapFs() en tests).
func NewFSBlobStore(fs afero.Fs, urlPrefix string) *FSBlobStore {
	return &FSBlobStore{fs: fs, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// NewLocalBlobStore almacén en disco bajo dir; crea el directorio si no existe.
func NewLocalBlobStore(dir, urlPrefix string) (*FSBlobStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return NewFSBlobStore(afero.NewBasePathFs(osFs, dir), urlPrefix), nil
}

// Save copia r a un archivo nuevo y devuelve su URL relativa.
func (s *FSBlobStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: tipo de imagen no soportado %q", domain.ErrValidation, ext)
	}
	name := uuid.New().String() + ext

	f, err := s.fs.Create(name)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("storage: cerrar archivo: %w", err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Delete borra el archivo de url. Solo acepta URLs bajo urlPrefix.
func (s *FSBlobStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimPrefix(url, s.urlPrefix+"/")
	if name == url || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: url de imagen ajena al almacén %q", domain.ErrValidation, url)
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar archivo: %w", err)
	}
	return nil
}
