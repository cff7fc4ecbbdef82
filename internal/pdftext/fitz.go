package pdftext

import (
	"github.com/gen2brain/go-fitz"
)

type fitzDocument struct {
	doc *fitz.Document
}

// OpenFitz opens a document with MuPDF.
func OpenFitz(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

func (d *fitzDocument) NumPage() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) Text(page int) (string, error) {
	return d.doc.Text(page)
}

func (d *fitzDocument) Links(page int) ([]string, error) {
	links, err := d.doc.Links(page)
	if err != nil {
		return nil, err
	}
	uris := make([]string, 0, len(links))
	for _, l := range links {
		if l.URI != "" {
			uris = append(uris, l.URI)
		}
	}
	return uris, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
