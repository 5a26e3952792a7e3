// Package docx extracts plain text from Word documents. A .docx file is a
// zip container; the document body lives in word/document.xml with text runs
// wrapped in <w:t> elements.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPath = "word/document.xml"

// Extract returns the text content of a .docx payload, one line per
// paragraph. It fails on payloads that are not valid zip containers or that
// carry no document part.
func Extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx container: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == documentPath {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx container has no %s", documentPath)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", documentPath, err)
	}
	defer rc.Close()

	text, err := extractText(rc)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", documentPath, err)
	}

	return text, nil
}

func extractText(r io.Reader) (string, error) {
	var (
		b      strings.Builder
		inText bool
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				b.WriteString("\n")
			case "tab":
				b.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
