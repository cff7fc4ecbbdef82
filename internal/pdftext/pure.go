package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pureDocument reads PDFs without cgo. The reader panics on some malformed
// content streams, so every page access recovers.
type pureDocument struct {
	r *pdf.Reader
}

// OpenPure opens a document with the pure Go reader.
func OpenPure(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("open pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &pureDocument{r: r}, nil
}

func (d *pureDocument) NumPage() int {
	return d.r.NumPage()
}

func (d *pureDocument) Text(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read page text: %v", r)
		}
	}()
	p := d.r.Page(page + 1)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (d *pureDocument) Links(page int) (uris []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			uris, err = nil, fmt.Errorf("read page annotations: %v", r)
		}
	}()
	p := d.r.Page(page + 1)
	if p.V.IsNull() {
		return nil, nil
	}
	annots := p.V.Key("Annots")
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.Key("Subtype").Name() != "Link" {
			continue
		}
		action := a.Key("A")
		if action.Key("S").Name() != "URI" {
			continue
		}
		if uri := strings.TrimSpace(action.Key("URI").Text()); uri != "" {
			uris = append(uris, uri)
		}
	}
	return uris, nil
}

func (d *pureDocument) Close() error {
	return nil
}
