/*
   Velociraptor - Dig Deeper
   Copyright (C) 2019-2025 Rapid7 Inc.

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published
   by the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
// An accessor for the local filesystem.

package file

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/go-errors/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"www.velocidex.com/golang/changelog/accessors"
)

var (
	fileAccessorCurrentOpened = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "accessor_file_current_open",
		Help: "Number of currently opened files with the file accessor.",
	})
)

type OSFileInfo struct {
	_FileInfo  os.FileInfo
	_full_path string
}

func NewOSFileInfo(base os.FileInfo, full_path string) *OSFileInfo {
	return &OSFileInfo{
		_FileInfo:  base,
		_full_path: full_path,
	}
}

func (self *OSFileInfo) Size() int64 {
	return self._FileInfo.Size()
}

func (self *OSFileInfo) Name() string {
	return self._FileInfo.Name()
}

func (self *OSFileInfo) IsDir() bool {
	return self._FileInfo.IsDir()
}

func (self *OSFileInfo) ModTime() time.Time {
	return self._FileInfo.ModTime()
}

func (self *OSFileInfo) FullPath() string {
	return self._full_path
}

func (self *OSFileInfo) Data() *ordereddict.Dict {
	result := ordereddict.NewDict().
		Set("Mode", self._FileInfo.Mode().String())

	if self._FileInfo.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(self._full_path)
		if err == nil {
			result.Set("Link", target)
		}
	}
	return result
}

// Keep track of the number of open files.
type OSFileWrapper struct {
	*os.File
	closed bool
}

func (self *OSFileWrapper) Close() error {
	if self.closed {
		return nil
	}
	self.closed = true
	fileAccessorCurrentOpened.Dec()
	return self.File.Close()
}

type OSFileSystemAccessor struct{}

func (self OSFileSystemAccessor) ReadDir(path string) ([]accessors.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	result := make([]accessors.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// The file was removed between listing and stat.
			continue
		}
		result = append(result,
			NewOSFileInfo(info, filepath.Join(path, entry.Name())))
	}
	return result, nil
}

func (self OSFileSystemAccessor) Lstat(path string) (accessors.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return NewOSFileInfo(info, path), nil
}

func (self OSFileSystemAccessor) Open(path string) (accessors.ReadSeekCloser, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	fileAccessorCurrentOpened.Inc()
	return &OSFileWrapper{File: fd}, nil
}

func init() {
	accessors.Register("file", &OSFileSystemAccessor{},
		"Access files using the operating system's API.")
}
