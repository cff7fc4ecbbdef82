package pdftext

import (
	"fmt"

	"github.com/fadilmartias/resume-profiler/internal/config"
)

// Document is an opened PDF. Pages are zero-based.
type Document interface {
	NumPage() int
	Text(page int) (string, error)
	Links(page int) ([]string, error)
	Close() error
}

// Opener opens a document from raw bytes.
type Opener func(data []byte) (Document, error)

// OpenerFor returns the opener for a configured backend name.
func OpenerFor(backend string) (Opener, error) {
	switch backend {
	case "", config.PDFBackendFitz:
		return OpenFitz, nil
	case config.PDFBackendPure:
		return OpenPure, nil
	}
	return nil, fmt.Errorf("unknown pdf backend %q", backend)
}
