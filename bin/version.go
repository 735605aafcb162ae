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
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/Velocidex/yaml/v2"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/changelog/changelog"
	"www.velocidex.com/golang/changelog/config"
)

var (
	version = app.Command("version", "Report the binary version and build information.")
)

// Writes the version as yaml followed by the columns this build
// produces. With verbose the Go build info is appended.
func writeVersion(out io.Writer, verbose bool) error {
	res, err := yaml.Marshal(config.GetVersion())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%vcolumns: %v\n", string(res),
		strings.Join(changelog.ColumnNames(), ","))
	if err != nil {
		return err
	}

	if verbose {
		info, ok := debug.ReadBuildInfo()
		if ok {
			_, err = fmt.Fprintf(out, "\nBuild Info:\n%v\n", info)
		}
	}
	return err
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		if command != version.FullCommand() {
			return false
		}

		err := writeVersion(os.Stdout, *verbose_flag)
		kingpin.FatalIfError(err, "Unable to encode version.")
		return true
	})
}
