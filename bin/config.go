package main

import (
	"fmt"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/changelog/config"
)

var (
	config_command = app.Command("config", "Manipulate the configuration.")

	config_show_command = config_command.Command(
		"show", "Show the current config.")

	config_generate_command = config_command.Command(
		"generate", "Generate a new config file.")

	config_generate_directory = config_generate_command.Flag(
		"directory", "Directory containing the change logs.").String()
)

func doShowConfig() {
	config_obj, err := load_config()
	kingpin.FatalIfError(err, "Unable to load config.")

	res, err := config.Encode(config_obj)
	kingpin.FatalIfError(err, "Unable to encode config.")

	fmt.Printf("%v", string(res))
}

func doGenerateConfig() {
	config_obj := config.GetDefaultConfig()
	config_obj.ChangeLog.Directory = *config_generate_directory

	err := config.ValidateConfig(config_obj)
	kingpin.FatalIfError(err, "Invalid config.")

	res, err := config.Encode(config_obj)
	kingpin.FatalIfError(err, "Unable to encode config.")

	fmt.Printf("%v", string(res))
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case config_show_command.FullCommand():
			doShowConfig()

		case config_generate_command.FullCommand():
			doGenerateConfig()

		default:
			return false
		}
		return true
	})
}
