// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/z5labs/strata/config/configtmpl"
	"github.com/z5labs/strata/config/value"
	"github.com/z5labs/strata/internal/try"
)

// FileReader is an io.Reader that handles opening a file for reading automatically.
type FileReader struct {
	path string

	openOnce sync.Once
	openErr  error
	fs       fs.FS
	file     io.ReadCloser
}

// NewFileReader configures a FileReader. If fsys is nil the file is
// opened from the host file system.
func NewFileReader(fsys fs.FS, path string) *FileReader {
	return &FileReader{
		path: path,
		fs:   fsys,
	}
}

// Read implements the io.Reader interface.
func (r *FileReader) Read(b []byte) (int, error) {
	r.openOnce.Do(func() {
		r.openErr = r.open()
	})
	if r.openErr != nil {
		return 0, r.openErr
	}
	if r.file == nil {
		return 0, fs.ErrClosed
	}
	return r.file.Read(b)
}

func (r *FileReader) open() error {
	if r.fs == nil {
		f, err := os.Open(r.path)
		if err != nil {
			return err
		}
		r.file = f
		return nil
	}

	f, err := r.fs.Open(r.path)
	if err != nil {
		return err
	}
	r.file = f
	return nil
}

// Close implements the io.Closer interface.
func (r *FileReader) Close() error {
	if r.file == nil {
		return nil
	}

	err := r.file.Close()
	r.file = nil
	return err
}

// FileOption represents options for configuring a File source.
type FileOption func(*File)

// Optional makes a missing file contribute an empty mapping
// instead of failing the build.
func Optional() FileOption {
	return func(f *File) {
		f.optional = true
	}
}

// FS reads the file from fsys instead of the host file system.
func FS(fsys fs.FS) FileOption {
	return func(f *File) {
		f.fs = fsys
	}
}

// Template renders the file as a text/template before decoding it.
// The functions of package configtmpl are always available.
func Template(opts ...RenderTextTemplateOption) FileOption {
	return func(f *File) {
		f.template = true
		f.templateOpts = append(
			[]RenderTextTemplateOption{TemplateFuncs(configtmpl.FuncMap())},
			opts...,
		)
	}
}

// File represents a Source which reads and decodes a config file.
type File struct {
	dec  Decoder
	path string

	decErr       error
	optional     bool
	fs           fs.FS
	template     bool
	templateOpts []RenderTextTemplateOption
}

// FromFile returns a Source which decodes the file at path with dec.
func FromFile(dec Decoder, path string, opts ...FileOption) File {
	f := File{
		dec:  dec,
		path: path,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// FromFileByExt is like FromFile but picks the Decoder from the file
// extension, see [ByExtension]. An unknown extension fails when the
// source is produced.
func FromFileByExt(path string, opts ...FileOption) File {
	dec, err := ByExtension(path)
	f := FromFile(dec, path, opts...)
	f.decErr = err
	return f
}

// Origin implements the Source interface.
func (src File) Origin() Origin {
	return OriginFile
}

// String implements the fmt.Stringer interface.
func (src File) String() string {
	return src.path
}

// Produce implements the Source interface.
func (src File) Produce() (value.Value, error) {
	if src.decErr != nil {
		return value.Value{}, ParseError{Format: "file", Cause: src.decErr}
	}

	b, err := src.read()
	if errors.Is(err, fs.ErrNotExist) && src.optional {
		return value.Mapping(), nil
	}

	var parseErr TextTemplateParseError
	var execErr TextTemplateExecError
	switch {
	case err == nil:
	case errors.As(err, &parseErr), errors.As(err, &execErr):
		return value.Value{}, ParseError{Format: "template", Cause: err}
	default:
		return value.Value{}, IoError{Path: src.path, Cause: err}
	}

	v, err := src.dec.Decode(b)
	if err != nil {
		return value.Value{}, ParseError{Format: src.dec.Format(), Cause: err}
	}
	return v, nil
}

func (src File) read() (_ []byte, err error) {
	var r io.Reader = NewFileReader(src.fs, src.path)
	if src.template {
		r = RenderTextTemplate(r, src.templateOpts...)
	}
	defer try.Close(&err, r)

	return io.ReadAll(r)
}
