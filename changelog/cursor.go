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
	"io"

	"www.velocidex.com/golang/changelog/accessors"
	_ "www.velocidex.com/golang/changelog/accessors/file"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/logging"
	"www.velocidex.com/golang/changelog/utils"
)

type cursorOptions struct {
	accessor    accessors.FileSystemAccessor
	buffer_size int
}

type Option func(options *cursorOptions)

// Use this accessor to list and open the log files instead of the
// one named in the config.
func WithAccessor(accessor accessors.FileSystemAccessor) Option {
	return func(options *cursorOptions) {
		options.accessor = accessor
	}
}

func WithBufferSize(buffer_size int) Option {
	return func(options *cursorOptions) {
		options.buffer_size = buffer_size
	}
}

// Produces change log rows one at a time. A cursor is not safe for
// concurrent use.
type ChangeLogCursor struct {
	config_obj *config_proto.Config
	files      []accessors.FileInfo
	source     *LineSource
	parser     *Parser
	closed     bool
}

// Selects the files matching pattern in root. Empty arguments default
// to the configured directory and glob. Nothing is read until the
// first call to Next().
func NewChangeLogCursor(
	config_obj *config_proto.Config,
	root, pattern string, options ...Option) (*ChangeLogCursor, error) {
	if config_obj == nil || config_obj.ChangeLog == nil {
		return nil, utils.InvalidConfigError
	}

	opts := &cursorOptions{
		buffer_size: config_obj.ChangeLog.BufferSize,
	}
	for _, option := range options {
		option(opts)
	}

	if opts.accessor == nil {
		accessor, err := accessors.GetAccessor(
			config_obj.ChangeLog.Accessor, nil)
		if err != nil {
			return nil, err
		}
		opts.accessor = accessor
	}

	root = utils.FirstNonEmpty(root, config_obj.ChangeLog.Directory)
	pattern = utils.FirstNonEmpty(pattern, config_obj.ChangeLog.Glob)

	grammar, err := NewGrammar(config_obj)
	if err != nil {
		return nil, err
	}

	files, err := SelectLogFiles(config_obj, opts.accessor, root, pattern)
	if err != nil {
		return nil, err
	}

	source := NewLineSource(config_obj, opts.accessor, files, opts.buffer_size)
	return &ChangeLogCursor{
		config_obj: config_obj,
		files:      files,
		source:     source,
		parser:     NewParser(grammar, source),
	}, nil
}

func (self *ChangeLogCursor) Schema() []Column {
	return Schema()
}

// The files the cursor reads, in reading order.
func (self *ChangeLogCursor) Files() []accessors.FileInfo {
	return self.files
}

// Returns the next record or io.EOF at the end of the data.
func (self *ChangeLogCursor) Next() (*Record, error) {
	if self.closed {
		return nil, io.EOF
	}

	record, err := self.parser.Next()
	if err != nil {
		if err != io.EOF {
			logger := logging.GetLogger(
				self.config_obj, &logging.ChangeLogComponent)
			logger.Error("ChangeLogCursor: %v", err)
		}
		return nil, err
	}

	rowsEmitted.Inc()
	return record, nil
}

// Like Next() but returns the values in schema order.
func (self *ChangeLogCursor) NextRow() ([]interface{}, error) {
	record, err := self.Next()
	if err != nil {
		return nil, err
	}
	return record.Row(), nil
}

func (self *ChangeLogCursor) Close() error {
	if self.closed {
		return nil
	}
	self.closed = true
	return self.source.Close()
}
