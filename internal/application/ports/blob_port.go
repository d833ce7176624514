package ports

import (
	"context"
	"io"
)

// BlobStore define el puerto de salida para el almacenamiento de imágenes de producto.
// Save persiste el contenido y devuelve la URL relativa con la que se sirve.
// Delete borra un archivo previamente devuelto por Save; borrar uno inexistente no es error.
type BlobStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}
