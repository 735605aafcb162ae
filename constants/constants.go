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
package constants

const (
	VERSION = "0.1.0"

	// Rotated change logs are written next to each other in the
	// server's log directory, e.g. cs_server_changes.log,
	// cs_server_changes.log.1, cs_server_changes.log.2.gz
	DEFAULT_CHANGELOG_GLOB = "cs_server_changes*.log*"

	// Default accessor used to enumerate and open log files.
	DEFAULT_ACCESSOR = "file"

	// Maximum line length the line source will accept (same default
	// as bufio.Scanner).
	DEFAULT_BUFFER_SIZE = 64 * 1024

	DEFAULT_TIMEZONE = "UTC"

	// Sentinel for missing integer columns.
	ABSENT_INTEGER int64 = -1
)

const (
	// Scope variable holding a per query accessors.DeviceManager.
	SCOPE_DEVICE_MANAGER = "$device_manager"
)

const (
	// Scope variable holding the *config_proto.Config.
	SCOPE_CONFIG = "$config"

	// Permission needed by plugins reading the filesystem.
	FILESYSTEM_READ = "FILESYSTEM_READ"
)
