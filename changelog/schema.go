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

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

var changeLogSchema = []Column{
	{Name: "change_time", Type: "timestamp"},
	{Name: "cid", Type: "int64"},
	{Name: "domain", Type: "string"},
	{Name: "user", Type: "string"},
	{Name: "userid", Type: "int64"},
	{Name: "hostname", Type: "string"},
	{Name: "operation", Type: "string"},
	{Name: "resource_id", Type: "int64"},
	{Name: "resource_path", Type: "string"},
	{Name: "resource_type", Type: "string"},
	{Name: "message", Type: "string"},
}

// The columns of every row, in row order. Callers get their own copy.
func Schema() []Column {
	result := make([]Column, len(changeLogSchema))
	copy(result, changeLogSchema)
	return result
}

func ColumnNames() []string {
	result := make([]string, 0, len(changeLogSchema))
	for _, column := range changeLogSchema {
		result = append(result, column.Name)
	}
	return result
}
