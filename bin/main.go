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
	"context"
	"os"
	"os/signal"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/changelog/config"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/logging"

	// Import all vql plugins.
	_ "www.velocidex.com/golang/changelog/vql/parsers"
)

type CommandHandler func(command string) bool

var (
	app = kingpin.New("changelog",
		"Extract change records from rotated server change logs.")

	config_path = app.Flag("config", "The configuration file.").Short('c').
			Envar("CHANGELOG_CONFIG").String()

	verbose_flag = app.Flag(
		"verbose", "Enabled verbose logging.").Short('v').
		Default("false").Bool()

	command_handlers []CommandHandler
)

// Loads the config from --config, falling back to the defaults when
// no file is given.
func makeDefaultConfigLoader() *config.Loader {
	return config.NewLoader().
		WithVerbose(*verbose_flag).
		WithFileLoader(*config_path).
		WithEnvLoader("CHANGELOG_CONFIG_FILE").
		WithDefaultLoader()
}

func load_config() (*config_proto.Config, error) {
	return makeDefaultConfigLoader().LoadAndValidate()
}

func install_sig_handler() (context.Context, context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		select {
		case <-quit:
			cancel()

		case <-ctx.Done():
			return
		}
	}()

	return ctx, cancel
}

func main() {
	app.HelpFlag.Short('h')
	app.UsageTemplate(kingpin.CompactUsageTemplate).DefaultEnvars()
	args := os.Args[1:]

	command := kingpin.MustParse(app.Parse(args))

	if !*verbose_flag {
		logging.SuppressLogging = true
		logging.Manager.Reset()
	}

	for _, command_handler := range command_handlers {
		if command_handler(command) {
			break
		}
	}
}
