package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// LoadOptions controls delimited-file ingestion.
type LoadOptions struct {
	// Delimiter for the file. If 0, sniffed from the extension.
	Delimiter rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// Load reads a delimited file into a Table. The bytes are decoded as UTF-8
// first and as ISO-8859-1 when that fails; a *LoadError is returned when the
// file is missing or no supported encoding applies. Export files in this
// domain commonly carry Latin-1 product descriptions.
func Load(path string, opt LoadOptions) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	text, err := decode(raw)
	if err != nil {
		return nil, &LoadError{Path: path, Encodings: []string{"utf-8", "iso-8859-1"}, Err: err}
	}

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil, nil), nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &LoadError{Path: path, Err: err}
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			break
		}
	}
	return New(header, rows), nil
}

func decode(raw []byte) (string, error) {
	// Strip a UTF-8 BOM if present.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
