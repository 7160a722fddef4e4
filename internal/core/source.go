package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrNoFile                  = errors.New("no file provided")
	ErrEmptyFile               = errors.New("empty file")
	ErrFileTooLarge            = errors.New("file too large")
	ErrSpreadsheetNotSupported = errors.New("spreadsheet not supported: export as CSV")
)

// DefaultMaxFileSize matches the limit advertised to users.
const DefaultMaxFileSize int64 = 10 << 20

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// IsSpreadsheetName reports whether fileName has an Excel extension.
func IsSpreadsheetName(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

func looksLikeSpreadsheet(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic) || bytes.HasPrefix(data, ole2Magic)
}

// ReadSource reads an uploaded file into the text handed to the tokenizer.
//
// Files larger than maxSize bytes fail with ErrFileTooLarge; a non-positive
// maxSize uses DefaultMaxFileSize. Excel workbooks are refused by name and by
// content. A leading BOM is dropped and invalid UTF-8 is replaced with U+FFFD.
// A body with no bytes left after that fails with ErrEmptyFile.
func ReadSource(r io.Reader, fileName string, maxSize int64) (string, error) {
	if r == nil {
		return "", ErrNoFile
	}
	if IsSpreadsheetName(fileName) {
		return "", fmt.Errorf("%s: %w", fileName, ErrSpreadsheetNotSupported)
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	raw, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fileName, err)
	}
	if int64(len(raw)) > maxSize {
		return "", fmt.Errorf("%s exceeds %d bytes: %w", fileName, maxSize, ErrFileTooLarge)
	}
	if looksLikeSpreadsheet(raw) {
		return "", fmt.Errorf("%s: %w", fileName, ErrSpreadsheetNotSupported)
	}

	// The UTF-8 decoder replaces invalid sequences with U+FFFD and never fails.
	decoded, _, _ := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if len(decoded) == 0 {
		return "", ErrEmptyFile
	}
	return string(decoded), nil
}
