package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"gallery/storage"
)

func newStore(t *testing.T, files map[string]string) *storage.DiskStorage {
	t.Helper()
	store, err := storage.NewDiskStorage(&storage.Bucket{Name: "test", Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewDiskStorage() error = %v", err)
	}
	for path, content := range files {
		if _, err = store.Save(path, strings.NewReader(content)); err != nil {
			t.Fatalf("Save(%s) error = %v", path, err)
		}
	}
	return store
}

// readArchive returns the entry names in order and their contents
func readArchive(t *testing.T, data []byte) ([]string, map[string]string) {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	names := []string{}
	contents := map[string]string{}
	for _, file := range reader.File {
		if file.Method != zip.Deflate {
			t.Errorf("%s: method = %d, want deflate", file.Name, file.Method)
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", file.Name, err)
		}
		names = append(names, file.Name)
		contents[file.Name] = string(content)
	}
	return names, contents
}

func entries(paths ...string) []Entry {
	result := []Entry{}
	for _, path := range paths {
		result = append(result, Entry{Name: path[strings.LastIndex(path, "/")+1:], Path: path})
	}
	return result
}

func TestPackage_SkipsMissingFiles(t *testing.T) {
	store := newStore(t, map[string]string{
		"albums/c/x.jpg": "xxx",
		"albums/c/z.jpg": strings.Repeat("z", 10000),
	})
	pkg, err := New(store, "C_full_album", entries("albums/c/x.jpg", "albums/c/y.jpg", "albums/c/z.jpg"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if pkg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", pkg.Len())
	}
	if pkg.FileName() != "C_full_album.zip" {
		t.Errorf("FileName() = %q", pkg.FileName())
	}
	buf := bytes.Buffer{}
	written, err := pkg.Stream(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if written != 2 {
		t.Errorf("Stream() written = %d, want 2", written)
	}
	names, contents := readArchive(t, buf.Bytes())
	if want := []string{"x.jpg", "z.jpg"}; !reflect.DeepEqual(names, want) {
		t.Errorf("entries = %v, want %v", names, want)
	}
	if contents["x.jpg"] != "xxx" || contents["z.jpg"] != strings.Repeat("z", 10000) {
		t.Error("archive contents differ from stored files")
	}
}

func TestNew_Errors(t *testing.T) {
	store := newStore(t, map[string]string{"albums/a/present.jpg": "data"})
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{"nil entries", nil, ErrEmptyScope},
		{"no entries", []Entry{}, ErrEmptyScope},
		{"all missing", entries("albums/a/gone.jpg", "albums/a/lost.jpg"), ErrNothingToPackage},
		{"directory is not a file", entries("albums/a"), ErrNothingToPackage},
		{"one present", entries("albums/a/gone.jpg", "albums/a/present.jpg"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(store, "name", tt.entries)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPackage_OrderAndDuplicateNames(t *testing.T) {
	store := newStore(t, map[string]string{
		"a/photo.jpg": "1",
		"b/photo.jpg": "2",
		"c/photo.jpg": "3",
		"d/other.png": "4",
	})
	pkg, err := New(store, "dups", entries("d/other.png", "a/photo.jpg", "b/photo.jpg", "c/photo.jpg"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	buf := bytes.Buffer{}
	if _, err = pkg.Stream(context.Background(), &buf); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	names, contents := readArchive(t, buf.Bytes())
	want := []string{"other.png", "photo.jpg", "photo (2).jpg", "photo (3).jpg"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("entries = %v, want %v", names, want)
	}
	if contents["photo.jpg"] != "1" || contents["photo (3).jpg"] != "3" {
		t.Errorf("contents = %v", contents)
	}
}

func TestPackage_FileVanishesBeforeStream(t *testing.T) {
	store := newStore(t, map[string]string{"a/1.jpg": "1", "a/2.jpg": "2"})
	pkg, err := New(store, "vanish", entries("a/1.jpg", "a/2.jpg"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err = store.Delete("a/1.jpg"); err != nil {
		t.Fatal(err)
	}
	buf := bytes.Buffer{}
	written, err := pkg.Stream(context.Background(), &buf)
	if err != nil || written != 1 {
		t.Fatalf("Stream() = %d, %v, want 1, nil", written, err)
	}
	names, _ := readArchive(t, buf.Bytes())
	if !reflect.DeepEqual(names, []string{"2.jpg"}) {
		t.Errorf("entries = %v, want [2.jpg]", names)
	}

	if err = store.Delete("a/2.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err = pkg.Stream(context.Background(), io.Discard); err == nil {
		t.Error("Stream() with every file gone succeeded")
	}
}

func TestPackage_StreamCancelled(t *testing.T) {
	store := newStore(t, map[string]string{"a/1.jpg": "1"})
	pkg, err := New(store, "cancel", entries("a/1.jpg"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = pkg.Stream(ctx, io.Discard); !errors.Is(err, context.Canceled) {
		t.Errorf("Stream() error = %v, want %v", err, context.Canceled)
	}
}

type brokenSource struct{}

func (brokenSource) Stat(string) (storage.FileInfo, error) {
	return storage.FileInfo{}, errors.New("access denied")
}

func (brokenSource) Open(string) (io.ReadCloser, error) {
	return nil, errors.New("access denied")
}

func TestNew_StorageFault(t *testing.T) {
	_, err := New(brokenSource{}, "broken", entries("a/1.jpg"))
	if err == nil || errors.Is(err, ErrNothingToPackage) {
		t.Errorf("New() error = %v, want a storage fault", err)
	}
}
