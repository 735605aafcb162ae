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

	"www.velocidex.com/golang/changelog/utils"
)

// Anything that yields lines and io.EOF at the end.
type LineReader interface {
	NextLine() (string, error)
}

// The parser assembles records from a line stream. It keeps a single
// working record: every emitted record is a copy of it, so fields the
// current lines do not mention keep the value they had in the
// previous record.
type Parser struct {
	grammar *Grammar
	source  LineReader

	record *Record

	// One line of look ahead. When a record ends, the line that
	// ended it is kept here to start the next one.
	line     string
	has_line bool

	err error
}

func NewParser(grammar *Grammar, source LineReader) *Parser {
	return &Parser{
		grammar: grammar,
		source:  source,
		record:  NewRecord(),
	}
}

// Loads the next line into the look ahead. Returns false at the end
// of the stream or on error.
func (self *Parser) advance() bool {
	line, err := self.source.NextLine()
	if err != nil {
		self.has_line = false
		if err != io.EOF {
			self.err = err
		}
		return false
	}

	self.line = line
	self.has_line = true
	return true
}

// Returns the next record or io.EOF. Read errors are sticky.
func (self *Parser) Next() (*Record, error) {
	if self.err != nil {
		return nil, self.err
	}

	// Skip blank lines between records.
	for !self.has_line || isBlank(self.line) {
		if !self.advance() {
			if self.err != nil {
				return nil, self.err
			}
			return nil, io.EOF
		}
	}

	self.record.Message = nil

	if self.grammar.Header.Apply(self.line, self.record) {
		if !self.advance() {
			return self.emit()
		}
	}

	// A header directly after a header starts the next record.
	if self.grammar.Header.Match(self.line) {
		return self.emit()
	}

	// Without an identifier line the same line is tried as an
	// operation.
	if self.grammar.Identifier.Apply(self.line, self.record) {
		if !self.advance() {
			return self.emit()
		}
	}

	if !self.grammar.Header.Match(self.line) &&
		!self.grammar.Identifier.Match(self.line) &&
		self.grammar.Operation.Apply(self.line, self.record) {
		if !self.advance() {
			return self.emit()
		}
	}

	for !self.grammar.IsStructural(self.line) {
		self.appendMessage(self.line)
		if !self.advance() {
			break
		}
	}

	return self.emit()
}

func (self *Parser) appendMessage(line string) {
	if self.record.Message == nil {
		self.record.Message = utils.StringPtr(line)
		return
	}
	self.record.Message = utils.StringPtr(*self.record.Message + "\n" + line)
}

func (self *Parser) emit() (*Record, error) {
	if self.err != nil {
		return nil, self.err
	}
	return self.record.Copy(), nil
}
