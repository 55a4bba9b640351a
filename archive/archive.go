// Package archive packages stored files into a single zip stream.
//
// Packaging happens in two steps. New checks which files still exist, so that an
// unsatisfiable request is rejected before anything is written to the client. Stream
// then writes the archive one file at a time, without buffering it in memory.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"gallery/storage"

	"github.com/klauspost/compress/flate"
)

var (
	ErrEmptyScope        = errors.New("nothing selected to package")
	ErrNothingToPackage  = errors.New("none of the selected files are available")
	errNoEntriesWritten  = errors.New("no archive entries written")
	defaultEntryModified = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Source is the subset of storage.StorageAPI the packager reads from
type Source interface {
	Stat(path string) (storage.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
}

// Entry is one file to package. Name is the name inside the archive.
type Entry struct {
	Name string
	Path string
}

type Package struct {
	Name    string
	entries []Entry
	infos   []storage.FileInfo
	source  Source
}

// New prepares a package called name. It fails with ErrEmptyScope when entries is empty and with
// ErrNothingToPackage when none of the files exist. Missing files are skipped.
func New(source Source, name string, entries []Entry) (*Package, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyScope
	}
	p := &Package{Name: name, source: source}
	for _, entry := range entries {
		info, err := source.Stat(entry.Path)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("archive: skipping missing file", "archive", name, "path", entry.Path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", entry.Path, err)
		}
		p.entries = append(p.entries, entry)
		p.infos = append(p.infos, info)
	}
	if len(p.entries) == 0 {
		return nil, ErrNothingToPackage
	}
	uniqueNames(p.entries)
	return p, nil
}

// Len is the number of files that will be packaged
func (p *Package) Len() int {
	return len(p.entries)
}

// FileName is the name to offer for download, e.g. "Summer_Trip_full_album.zip"
func (p *Package) FileName() string {
	return p.Name + ".zip"
}

// Stream writes the zip archive to w, entries keep their order. A file that disappeared
// since New is skipped. Cancelling ctx stops after the current file.
func (p *Package) Stream(ctx context.Context, w io.Writer) (written int, err error) {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	for i, entry := range p.entries {
		if err = ctx.Err(); err != nil {
			return written, err
		}
		var ok bool
		if ok, err = p.addEntry(zw, entry, p.infos[i]); err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	if err = zw.Close(); err != nil {
		return written, fmt.Errorf("closing archive: %w", err)
	}
	if written == 0 {
		return 0, errNoEntriesWritten
	}
	return written, nil
}

func (p *Package) addEntry(zw *zip.Writer, entry Entry, info storage.FileInfo) (bool, error) {
	file, err := p.source.Open(entry.Path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("archive: file disappeared", "archive", p.Name, "path", entry.Path)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", entry.Path, err)
	}
	defer file.Close()

	header := &zip.FileHeader{
		Name:     entry.Name,
		Method:   zip.Deflate,
		Modified: info.ModTime,
	}
	if header.Modified.IsZero() {
		header.Modified = defaultEntryModified
	}
	header.SetMode(0644)
	writer, err := zw.CreateHeader(header)
	if err != nil {
		return false, fmt.Errorf("creating zip entry %s: %w", entry.Name, err)
	}
	if _, err = io.Copy(writer, file); err != nil {
		return false, fmt.Errorf("writing %s to archive: %w", entry.Name, err)
	}
	return true, nil
}

// uniqueNames renames repeated entry names to "name (2).ext", "name (3).ext"...
func uniqueNames(entries []Entry) {
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		name := entries[i].Name
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for n := 2; seen[name]; n++ {
			name = base + " (" + strconv.Itoa(n) + ")" + ext
		}
		seen[name] = true
		entries[i].Name = name
	}
}
