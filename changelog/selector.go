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
	"sort"

	"github.com/dustin/go-humanize"
	"www.velocidex.com/golang/changelog/accessors"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/glob"
	"www.velocidex.com/golang/changelog/logging"
)

// Lists the files in root whose name matches pattern, oldest first.
// Files with the same modification time are ordered by path. A
// missing or unreadable directory produces an empty list.
func SelectLogFiles(
	config_obj *config_proto.Config,
	accessor accessors.FileSystemAccessor,
	root, pattern string) ([]accessors.FileInfo, error) {
	logger := logging.GetLogger(config_obj, &logging.ChangeLogComponent)

	matcher, err := glob.NewNameMatcher(pattern)
	if err != nil {
		return nil, err
	}

	result := []accessors.FileInfo{}
	children, err := accessor.ReadDir(root)
	if err != nil {
		logger.Debug("SelectLogFiles: Unable to list %v: %v", root, err)
		return result, nil
	}

	var total_size int64
	for _, child := range children {
		if child.IsDir() || !matcher.Match(child.Name()) {
			continue
		}
		result = append(result, child)
		total_size += child.Size()
	}

	sort.SliceStable(result, func(i, j int) bool {
		left, right := result[i].ModTime(), result[j].ModTime()
		if left.Equal(right) {
			return result[i].FullPath() < result[j].FullPath()
		}
		return left.Before(right)
	})

	logger.Debug("SelectLogFiles: Selected %v files matching %v in %v (%v)",
		len(result), matcher.String(), root,
		humanize.Bytes(uint64(total_size)))

	return result, nil
}
