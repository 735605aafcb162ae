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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "changelog_files_opened",
		Help: "Number of rotated change log files opened.",
	})

	fileOpenErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "changelog_file_open_errors",
		Help: "Number of change log files skipped because they could not be opened.",
	})

	linesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "changelog_lines_read",
		Help: "Number of lines read from change log files.",
	})

	rowsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "changelog_rows_emitted",
		Help: "Number of change log records emitted.",
	})
)
