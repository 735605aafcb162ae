// An in memory filesystem. Tests use it to build directories of
// rotated logs with exact modification times, and to inject open and
// read failures.

package memory

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"www.velocidex.com/golang/changelog/accessors"
	"www.velocidex.com/golang/changelog/utils"
)

type memoryFile struct {
	data  []byte
	mtime time.Time

	open_error error

	// Reads fail with read_error once read_error_offset bytes were
	// returned.
	read_error        error
	read_error_offset int
}

type MemoryFileSystemAccessor struct {
	mu    sync.Mutex
	files map[string]*memoryFile
	dirs  map[string]time.Time
}

func NewMemoryFileSystemAccessor() *MemoryFileSystemAccessor {
	return &MemoryFileSystemAccessor{
		files: make(map[string]*memoryFile),
		dirs:  make(map[string]time.Time),
	}
}

func (self *MemoryFileSystemAccessor) AddDirectory(dirname string) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.addDirectory(path.Clean(dirname))
}

func (self *MemoryFileSystemAccessor) addDirectory(dirname string) {
	for {
		_, pres := self.dirs[dirname]
		if !pres {
			self.dirs[dirname] = time.Time{}
		}
		parent := path.Dir(dirname)
		if parent == dirname {
			return
		}
		dirname = parent
	}
}

// Creates or replaces a file. Parent directories are created as
// needed.
func (self *MemoryFileSystemAccessor) SetFile(
	filename string, data []byte, mtime time.Time) {
	self.mu.Lock()
	defer self.mu.Unlock()

	filename = path.Clean(filename)
	self.addDirectory(path.Dir(filename))
	self.files[filename] = &memoryFile{
		data:  data,
		mtime: mtime,
	}
}

// Subsequent Open() calls on the file will fail with err.
func (self *MemoryFileSystemAccessor) SetOpenError(filename string, err error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	file, pres := self.files[path.Clean(filename)]
	if pres {
		file.open_error = err
	}
}

// Reading the file will fail with err after offset bytes.
func (self *MemoryFileSystemAccessor) SetReadError(
	filename string, offset int, err error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	file, pres := self.files[path.Clean(filename)]
	if pres {
		file.read_error = err
		file.read_error_offset = offset
	}
}

func (self *MemoryFileSystemAccessor) ReadDir(
	dirname string) ([]accessors.FileInfo, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	dirname = path.Clean(dirname)
	_, pres := self.dirs[dirname]
	if !pres {
		return nil, fmt.Errorf("%w: %v", utils.NotFoundError, dirname)
	}

	result := []accessors.FileInfo{}
	for name, mtime := range self.dirs {
		if name != dirname && path.Dir(name) == dirname {
			result = append(result, &accessors.VirtualFileInfo{
				Path:   name,
				Name_:  path.Base(name),
				IsDir_: true,
				Mtime:  mtime,
			})
		}
	}

	for name, file := range self.files {
		if path.Dir(name) == dirname {
			result = append(result, self.fileInfo(name, file))
		}
	}

	// Map order is random but real directory listings are not.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})

	return result, nil
}

func (self *MemoryFileSystemAccessor) fileInfo(
	name string, file *memoryFile) *accessors.VirtualFileInfo {
	return &accessors.VirtualFileInfo{
		Path:  name,
		Name_: path.Base(name),
		Size_: int64(len(file.data)),
		Mtime: file.mtime,
	}
}

func (self *MemoryFileSystemAccessor) Lstat(
	filename string) (accessors.FileInfo, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	filename = path.Clean(filename)
	file, pres := self.files[filename]
	if pres {
		return self.fileInfo(filename, file), nil
	}

	mtime, pres := self.dirs[filename]
	if pres {
		return &accessors.VirtualFileInfo{
			Path:   filename,
			Name_:  path.Base(filename),
			IsDir_: true,
			Mtime:  mtime,
		}, nil
	}

	return nil, fmt.Errorf("%w: %v", utils.NotFoundError, filename)
}

func (self *MemoryFileSystemAccessor) Open(
	filename string) (accessors.ReadSeekCloser, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	filename = path.Clean(filename)
	file, pres := self.files[filename]
	if !pres {
		return nil, fmt.Errorf("%w: %v", utils.NotFoundError, filename)
	}

	if file.open_error != nil {
		return nil, file.open_error
	}

	if file.read_error != nil {
		return &failingReader{
			Reader: bytes.NewReader(file.data[:file.read_error_offset]),
			err:    file.read_error,
		}, nil
	}

	return accessors.VirtualReadSeekCloser{
		ReadSeeker: bytes.NewReader(file.data),
	}, nil
}

type failingReader struct {
	*bytes.Reader
	err error
}

func (self *failingReader) Read(buf []byte) (int, error) {
	n, err := self.Reader.Read(buf)
	if errors.Is(err, io.EOF) {
		return n, self.err
	}
	return n, err
}

func (self *failingReader) Close() error {
	return nil
}
