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
/* An internal package with test utilities.
 */

package vtesting

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func ReadFile(t *testing.T, filename string) []byte {
	result, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed reading file: %v", err)
	}
	return result
}

// Writes a file into dir and forces its modification time so tests
// can control the order in which rotated logs are read.
func WriteFileWithMtime(t *testing.T, dir, name string,
	data []byte, mtime time.Time) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, data, 0600)
	if err != nil {
		t.Fatalf("Failed writing file: %v", err)
	}

	err = os.Chtimes(path, mtime, mtime)
	if err != nil {
		t.Fatalf("Failed setting mtime: %v", err)
	}
	return path
}

// Base time for fixtures. Each rotated file gets a later mtime.
func FileTime(idx int) time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).
		Add(time.Duration(idx) * time.Hour)
}
