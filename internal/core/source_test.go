package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadSource(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		file    string
		want    string
		wantErr error
	}{
		{
			name:  "plain csv",
			input: []byte("email\na@x.com"),
			file:  "contacts.csv",
			want:  "email\na@x.com",
		},
		{
			name:  "utf8 bom dropped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, "email\na@x.com"...),
			file:  "contacts.csv",
			want:  "email\na@x.com",
		},
		{
			name:  "invalid utf8 replaced",
			input: []byte("email,first_name\na@x.com,Jos\xe9"),
			file:  "contacts.csv",
			want:  "email,first_name\na@x.com,Jos�",
		},
		{
			name:  "multibyte kept",
			input: []byte("email,first_name\na@x.com,Zoë"),
			file:  "contacts.csv",
			want:  "email,first_name\na@x.com,Zoë",
		},
		{
			name:    "empty body",
			input:   []byte{},
			file:    "contacts.csv",
			wantErr: ErrEmptyFile,
		},
		{
			name:    "only bom",
			input:   []byte{0xEF, 0xBB, 0xBF},
			file:    "contacts.csv",
			wantErr: ErrEmptyFile,
		},
		{
			name:    "xlsx by name",
			input:   []byte("email\na@x.com"),
			file:    "Contacts.XLSX",
			wantErr: ErrSpreadsheetNotSupported,
		},
		{
			name:    "xls by name",
			input:   []byte("email"),
			file:    "old.xls",
			wantErr: ErrSpreadsheetNotSupported,
		},
		{
			name:    "zip content with csv name",
			input:   append([]byte("PK\x03\x04"), "rest"...),
			file:    "renamed.csv",
			wantErr: ErrSpreadsheetNotSupported,
		},
		{
			name:    "ole2 content",
			input:   []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00},
			file:    "upload",
			wantErr: ErrSpreadsheetNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSource(bytes.NewReader(tt.input), tt.file, 1024)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadSource_SizeLimit(t *testing.T) {
	body := strings.Repeat("a", 100)

	if _, err := ReadSource(strings.NewReader(body), "a.csv", 100); err != nil {
		t.Errorf("body at limit: unexpected error %v", err)
	}
	if _, err := ReadSource(strings.NewReader(body+"a"), "a.csv", 100); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("body over limit: err = %v, want ErrFileTooLarge", err)
	}
}

func TestReadSource_NilReader(t *testing.T) {
	if _, err := ReadSource(nil, "", 0); !errors.Is(err, ErrNoFile) {
		t.Errorf("err = %v, want ErrNoFile", err)
	}
}

func TestIsSpreadsheetName(t *testing.T) {
	tests := map[string]bool{
		"a.xlsx":      true,
		"a.XLS":       true,
		"a.csv":       false,
		"xlsx":        false,
		"report.xlsm": false,
		"":            false,
	}
	for name, want := range tests {
		if got := IsSpreadsheetName(name); got != want {
			t.Errorf("IsSpreadsheetName(%q) = %v, want %v", name, got, want)
		}
	}
}
