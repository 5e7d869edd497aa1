package mdx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"
)

// DictionaryFS wraps a Dictionary to implement io/fs.FS, so an MDX/MDD
// file's contents can be served like a regular filesystem — for
// example behind an http.FileServer for MDD image/audio resources.
type DictionaryFS struct {
	dict *Dictionary
}

// NewDictionaryFS wraps dict as an io/fs.FS. dict must already have
// BuildIndex called.
func NewDictionaryFS(dict *Dictionary) *DictionaryFS {
	if dict == nil {
		panic("mdx: NewDictionaryFS: dict cannot be nil")
	}
	return &DictionaryFS{dict: dict}
}

func (dfs *DictionaryFS) modTime() time.Time {
	modTime := time.Now()
	creationDate := dfs.dict.CreationDate()
	if creationDate == "" {
		return modTime
	}
	if parsed, err := time.Parse("2006-01-02", creationDate); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006.01.02 15:04:05", creationDate); err == nil {
		return parsed
	}
	log.Warningf("DictionaryFS: could not parse CreationDate %q, using current time", creationDate)
	return modTime
}

// Open opens a file: a keyword (MDX) or a resource path (MDD).
func (dfs *DictionaryFS) Open(name string) (fs.File, error) {
	log.Debugf("DictionaryFS: Open called with name: %q", name)

	if name == "." || name == "" || strings.HasSuffix(name, "/") {
		return &dictFile{
			fs:    dfs,
			name:  ".",
			isDir: true,
			info:  &dictFileInfo{name: ".", isDir: true, modTime: dfs.modTime()},
		}, nil
	}

	var content []byte
	var err error
	if dfs.dict.IsMDD() {
		var s string
		s, err = dfs.dict.Locate(name, ResourceEncodingNone)
		content = []byte(s)
	} else {
		content, err = dfs.dict.Lookup(name)
	}

	if err != nil {
		if IsNotFound(err) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("mdx: DictionaryFS.Open(%q): %w", name, err)
	}

	info := &dictFileInfo{
		name:    path.Base(name),
		size:    int64(len(content)),
		modTime: dfs.modTime(),
	}

	return &dictFile{
		fs:      dfs,
		name:    name,
		content: content,
		reader:  bytes.NewReader(content),
		info:    info,
	}, nil
}

// dictFile implements fs.File and fs.ReadDirFile.
type dictFile struct {
	fs      *DictionaryFS
	name    string
	isDir   bool
	reader  *bytes.Reader
	content []byte
	info    fs.FileInfo
}

func (f *dictFile) Stat() (fs.FileInfo, error) { return f.info, nil }

func (f *dictFile) Read(b []byte) (int, error) {
	if f.isDir {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: errors.New("is a directory")}
	}
	if f.reader == nil {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: fs.ErrClosed}
	}
	return f.reader.Read(b)
}

func (f *dictFile) Close() error {
	f.reader = nil
	f.content = nil
	return nil
}

func (f *dictFile) Seek(offset int64, whence int) (int64, error) {
	if f.isDir {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: errors.New("is a directory")}
	}
	if f.reader == nil {
		return 0, &fs.PathError{Op: "seek", Path: f.name, Err: fs.ErrClosed}
	}
	return f.reader.Seek(offset, whence)
}

// ReadDir lists every key entry as a directory entry. Only the root
// ("."), the sole directory this filesystem exposes, supports it.
func (f *dictFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if !f.isDir || f.name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: f.name, Err: errors.New("not a directory")}
	}

	keys, err := f.fs.dict.Keys()
	if err != nil {
		return nil, fmt.Errorf("mdx: DictionaryFS.ReadDir: %w", err)
	}

	modTime := f.fs.modTime()
	entries := make([]fs.DirEntry, 0, len(keys))
	for _, k := range keys {
		entryName := k.Key
		if f.fs.dict.IsMDD() {
			entryName = strings.TrimLeft(entryName, "\\/")
		}
		entries = append(entries, &dictFileInfo{
			name:    path.Base(entryName),
			modTime: modTime,
		})
	}

	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// dictFileInfo implements fs.FileInfo and fs.DirEntry.
type dictFileInfo struct {
	name    string
	size    int64
	isDir   bool
	modTime time.Time
}

func (i *dictFileInfo) Name() string       { return i.name }
func (i *dictFileInfo) Size() int64        { return i.size }
func (i *dictFileInfo) IsDir() bool        { return i.isDir }
func (i *dictFileInfo) ModTime() time.Time { return i.modTime }
func (i *dictFileInfo) Sys() interface{}   { return nil }
func (i *dictFileInfo) Info() (fs.FileInfo, error) { return i, nil }
func (i *dictFileInfo) Type() fs.FileMode  { return i.Mode().Type() }
func (i *dictFileInfo) Mode() fs.FileMode {
	if i.isDir {
		return fs.ModeDir | 0555
	}
	return 0444
}

var (
	_ fs.File        = (*dictFile)(nil)
	_ fs.ReadDirFile = (*dictFile)(nil)
	_ fs.FS          = (*DictionaryFS)(nil)
	_ fs.FileInfo    = (*dictFileInfo)(nil)
	_ fs.DirEntry    = (*dictFileInfo)(nil)
)
