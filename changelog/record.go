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
	"time"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/changelog/constants"
)

// A single change event. Integer fields use -1 when absent, string
// fields use nil and ChangeTime uses the zero time.
type Record struct {
	ChangeTime   time.Time
	Cid          int64
	Domain       *string
	User         *string
	UserId       int64
	Hostname     *string
	Operation    *string
	ResourceId   int64
	ResourcePath *string
	ResourceType *string
	Message      *string
}

func NewRecord() *Record {
	return &Record{
		Cid:        constants.ABSENT_INTEGER,
		UserId:     constants.ABSENT_INTEGER,
		ResourceId: constants.ABSENT_INTEGER,
	}
}

// Strings are never mutated in place so a shallow copy is enough to
// detach an emitted record from the working state.
func (self *Record) Copy() *Record {
	result := *self
	return &result
}

// Values in schema order. NULLs are nil.
func (self *Record) Row() []interface{} {
	var change_time interface{}
	if !self.ChangeTime.IsZero() {
		change_time = self.ChangeTime
	}

	return []interface{}{
		change_time,
		self.Cid,
		stringOrNil(self.Domain),
		stringOrNil(self.User),
		self.UserId,
		stringOrNil(self.Hostname),
		stringOrNil(self.Operation),
		self.ResourceId,
		stringOrNil(self.ResourcePath),
		stringOrNil(self.ResourceType),
		stringOrNil(self.Message),
	}
}

func (self *Record) ToDict() *ordereddict.Dict {
	result := ordereddict.NewDict()
	for idx, value := range self.Row() {
		result.Set(changeLogSchema[idx].Name, value)
	}
	return result
}

func stringOrNil(in *string) interface{} {
	if in == nil {
		return nil
	}
	return *in
}
