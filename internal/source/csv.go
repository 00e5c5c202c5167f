// Package source reads the sales CSV file into an untyped in-memory frame.
package source

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/retailload/pkg/retailload"
)

const utf8BOM = "\uFEFF"

// Frame is a parsed CSV file: the header row and every data row as text.
// All rows have len(Header) fields.
type Frame struct {
	Header []string
	Rows   [][]string

	// Checksum is the hex SHA-256 of the file bytes. Set by ReadFile only.
	Checksum string
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// ReadFile opens and parses the CSV file at path.
func ReadFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w: %w", path, retailload.ErrSourceRead, err)
	}
	defer file.Close()

	hash := sha256.New()
	frame, err := Read(io.TeeReader(file, hash))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	frame.Checksum = hex.EncodeToString(hash.Sum(nil))
	return frame, nil
}

// Read parses CSV content. The first record is the header; blank lines are skipped.
// A data row whose width differs from the header fails with retailload.ErrSchemaMismatch.
func Read(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0 // every record must match the header width

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("file is empty, expected a header row: %w", retailload.ErrSourceRead)
		}
		return nil, wrapReadError("failed to read header", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	frame := &Frame{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapReadError("failed to read record", err)
		}
		frame.Rows = append(frame.Rows, record)
	}

	return frame, nil
}

func wrapReadError(msg string, err error) error {
	if errors.Is(err, csv.ErrFieldCount) {
		return fmt.Errorf("%s: %w: %w", msg, retailload.ErrSchemaMismatch, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, retailload.ErrSourceRead, err)
}
