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
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-errors/errors"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/constants"
	"www.velocidex.com/golang/changelog/utils"
)

var (
	header_regex = regexp.MustCompile(
		`^\s*(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:[.,]\d{1,9})?)\s+(.*?)\s*$`)

	// DOMAIN/user (userid) hostname saved following changes:
	change_header_regex = regexp.MustCompile(
		`^([^\s/]+)/(\S+)(?:\s+\((\d+)\))?(?:\s+(\S+))?\s+saved following changes:?$`)

	// LOCKED TABLE '/path/to/resource' optional comment
	lock_header_regex = regexp.MustCompile(
		`^(LOCKED|UNLOCKED)\s+(\S+)\s+('[^']*'|\S+)(?:\s+(.*))?$`)

	import_header_regex = regexp.MustCompile(`^IMPORTING$`)

	identifier_regex = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s*$`)

	// UPDATED COLUMN /x/y (99)
	operation_regex = regexp.MustCompile(
		`^\s*(\S+)\s+(\S+)\s+(.+?)\s+\((-?\d+)\)\s*$`)
)

// A LineMatcher recognizes one kind of structural line and copies
// the fields it carries into the working record. Fields the line
// does not carry are left alone.
type LineMatcher interface {
	Name() string
	Match(line string) bool
	Apply(line string, record *Record) bool
}

type HeaderMatcher struct {
	layout   string
	location *time.Location
}

func NewHeaderMatcher(
	config_obj *config_proto.Config) (*HeaderMatcher, error) {
	result := &HeaderMatcher{location: time.UTC}

	if config_obj == nil || config_obj.ChangeLog == nil {
		return result, nil
	}

	result.layout = config_obj.ChangeLog.TimestampLayout
	timezone := utils.FirstNonEmpty(
		config_obj.ChangeLog.Timezone, constants.DEFAULT_TIMEZONE)
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	result.location = location

	return result, nil
}

func (self *HeaderMatcher) Name() string {
	return "header"
}

func (self *HeaderMatcher) parseTime(timestamp string) (time.Time, error) {
	if self.layout != "" {
		return time.ParseInLocation(self.layout, timestamp, self.location)
	}
	return dateparse.ParseIn(timestamp, self.location)
}

func (self *HeaderMatcher) Match(line string) bool {
	return self.Apply(line, nil)
}

// A nil record only tests the line.
func (self *HeaderMatcher) Apply(line string, record *Record) bool {
	m := header_regex.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	change_time, err := self.parseTime(m[1])
	if err != nil {
		return false
	}
	rest := m[2]

	if change := change_header_regex.FindStringSubmatch(rest); change != nil {
		if record == nil {
			return true
		}
		record.Domain = utils.StringPtr(change[1])
		record.User = utils.StringPtr(change[2])
		if change[3] != "" {
			userid, err := strconv.ParseInt(change[3], 10, 64)
			if err == nil {
				record.UserId = userid
			}
		}
		if change[4] != "" {
			record.Hostname = utils.StringPtr(change[4])
		}

	} else if lock := lock_header_regex.FindStringSubmatch(rest); lock != nil {
		if record == nil {
			return true
		}
		record.Operation = utils.StringPtr(lock[1])
		record.ResourceType = utils.StringPtr(lock[2])
		record.ResourcePath = utils.StringPtr(utils.TrimSingleQuotes(lock[3]))
		record.Message = nil
		if lock[4] != "" {
			record.Message = utils.StringPtr(lock[4])
		}
		record.Domain = nil
		record.User = nil
		record.Hostname = nil

	} else if import_header_regex.MatchString(rest) {
		if record == nil {
			return true
		}
		record.Operation = utils.StringPtr(rest)

	} else {
		return false
	}

	record.ChangeTime = change_time
	record.Cid = constants.ABSENT_INTEGER
	return true
}

type IdentifierMatcher struct{}

func (self IdentifierMatcher) Name() string {
	return "identifier"
}

func (self IdentifierMatcher) Match(line string) bool {
	return self.Apply(line, nil)
}

func (self IdentifierMatcher) Apply(line string, record *Record) bool {
	m := identifier_regex.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	// Only the second number is the change id.
	cid, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return false
	}

	if record != nil {
		record.Cid = cid
	}
	return true
}

type OperationMatcher struct{}

func (self OperationMatcher) Name() string {
	return "operation"
}

func (self OperationMatcher) Match(line string) bool {
	return self.Apply(line, nil)
}

func (self OperationMatcher) Apply(line string, record *Record) bool {
	m := operation_regex.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	resource_id, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return false
	}

	if record != nil {
		record.Operation = utils.StringPtr(m[1])
		record.ResourceType = utils.StringPtr(m[2])
		record.ResourcePath = utils.StringPtr(utils.TrimSingleQuotes(m[3]))
		record.ResourceId = resource_id
	}
	return true
}

// The structural matchers in precedence order.
type Grammar struct {
	Header     LineMatcher
	Identifier LineMatcher
	Operation  LineMatcher
}

func NewGrammar(config_obj *config_proto.Config) (*Grammar, error) {
	header, err := NewHeaderMatcher(config_obj)
	if err != nil {
		return nil, err
	}

	return &Grammar{
		Header:     header,
		Identifier: IdentifierMatcher{},
		Operation:  OperationMatcher{},
	}, nil
}

func (self *Grammar) Matchers() []LineMatcher {
	return []LineMatcher{self.Header, self.Identifier, self.Operation}
}

// A structural line starts a new record, anything else is message
// text.
func (self *Grammar) IsStructural(line string) bool {
	for _, matcher := range self.Matchers() {
		if matcher.Match(line) {
			return true
		}
	}
	return false
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
