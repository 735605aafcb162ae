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
package changelog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-errors/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"www.velocidex.com/golang/changelog/accessors"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/logging"
)

var (
	gzip_magic = []byte{0x1f, 0x8b}
	zstd_magic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Presents an ordered set of files as a single stream of lines. Only
// one file is open at any time.
type LineSource struct {
	config_obj  *config_proto.Config
	accessor    accessors.FileSystemAccessor
	files       []accessors.FileInfo
	buffer_size int

	// Index of the next file to open.
	next_file int

	current_name string
	fd           io.ReadCloser
	scanner      *bufio.Scanner
	first_line   bool

	closed bool
	err    error
}

func NewLineSource(
	config_obj *config_proto.Config,
	accessor accessors.FileSystemAccessor,
	files []accessors.FileInfo, buffer_size int) *LineSource {
	return &LineSource{
		config_obj:  config_obj,
		accessor:    accessor,
		files:       files,
		buffer_size: buffer_size,
	}
}

// Returns the next line without its line terminator, or io.EOF once
// all files are exhausted.
func (self *LineSource) NextLine() (string, error) {
	for {
		if self.err != nil {
			return "", self.err
		}

		if self.closed {
			return "", io.EOF
		}

		if self.scanner == nil {
			if self.next_file >= len(self.files) {
				return "", io.EOF
			}

			file := self.files[self.next_file]
			self.next_file++
			self.openFile(file)
			continue
		}

		if self.scanner.Scan() {
			line := self.scanner.Text()
			if self.first_line {
				// strip UTF-8 byte order mark if any
				line, _ = strings.CutPrefix(line, "\xef\xbb\xbf")
				self.first_line = false
			}
			linesRead.Inc()
			return line, nil
		}

		err := self.scanner.Err()
		name := self.current_name
		self.closeCurrent()

		if err != nil {
			self.err = errors.Wrap(
				fmt.Errorf("While reading %v: %w", name, err), 0)
			return "", self.err
		}
	}
}

// Files that can not be opened are skipped.
func (self *LineSource) openFile(file accessors.FileInfo) {
	logger := logging.GetLogger(self.config_obj, &logging.ChangeLogComponent)

	fd, err := self.openWithDecompression(file.FullPath())
	if err != nil {
		fileOpenErrors.Inc()
		logger.Warn("Skipping %v: %v", file.FullPath(), err)
		return
	}

	filesOpened.Inc()
	logger.Debug("Reading %v (%v)", file.FullPath(),
		humanize.Bytes(uint64(file.Size())))

	scanner := bufio.NewScanner(fd)
	if self.buffer_size > 0 {
		scanner.Buffer(make([]byte, self.buffer_size), self.buffer_size)
	}

	self.current_name = file.FullPath()
	self.fd = fd
	self.scanner = scanner
	self.first_line = true
}

// Rotated logs are often compressed. We detect this from the content
// rather than the file name.
func (self *LineSource) openWithDecompression(
	filename string) (io.ReadCloser, error) {
	fd, err := self.accessor.Open(filename)
	if err != nil {
		return nil, err
	}

	header := make([]byte, len(zstd_magic))
	n, err := io.ReadFull(fd, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		fd.Close()
		return nil, errors.Wrap(err, 0)
	}
	header = header[:n]

	_, err = fd.Seek(0, io.SeekStart)
	if err != nil {
		fd.Close()
		return nil, errors.Wrap(err, 0)
	}

	switch {
	case bytes.HasPrefix(header, gzip_magic):
		zr, err := gzip.NewReader(fd)
		if err != nil {
			fd.Close()
			return nil, errors.Wrap(err, 0)
		}
		return &decompressingReader{
			Reader: zr,
			close: func() error {
				zr.Close()
				return fd.Close()
			},
		}, nil

	case bytes.HasPrefix(header, zstd_magic):
		zr, err := zstd.NewReader(fd)
		if err != nil {
			fd.Close()
			return nil, errors.Wrap(err, 0)
		}
		return &decompressingReader{
			Reader: zr,
			close: func() error {
				zr.Close()
				return fd.Close()
			},
		}, nil
	}

	return fd, nil
}

func (self *LineSource) closeCurrent() {
	if self.fd != nil {
		self.fd.Close()
	}
	self.fd = nil
	self.scanner = nil
	self.current_name = ""
}

// Releases the open file. Further calls to NextLine() return io.EOF.
func (self *LineSource) Close() error {
	if self.closed {
		return nil
	}
	self.closed = true

	var err error
	if self.fd != nil {
		err = self.fd.Close()
	}
	self.fd = nil
	self.scanner = nil
	return err
}

type decompressingReader struct {
	io.Reader
	close func() error
}

func (self *decompressingReader) Close() error {
	return self.close()
}
