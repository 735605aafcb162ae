package main

import (
	"io"
	"os"

	"github.com/Velocidex/ordereddict"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/changelog/changelog"
	"www.velocidex.com/golang/changelog/reporting"
)

var (
	schema_command = app.Command("schema", "Print the columns of the change log rows.")

	schema_format = schema_command.Flag("format", "Output format to use.").
			Default("table").Enum(reporting.Formats...)
)

func writeSchema(format string, out io.Writer) error {
	writer, err := reporting.NewRowWriter(format, []string{"Name", "Type"}, out)
	if err != nil {
		return err
	}

	for _, column := range changelog.Schema() {
		err = writer.Write(ordereddict.NewDict().
			Set("Name", column.Name).
			Set("Type", column.Type))
		if err != nil {
			return err
		}
	}
	return writer.Close()
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case schema_command.FullCommand():
			err := writeSchema(*schema_format, os.Stdout)
			kingpin.FatalIfError(err, "schema")

		default:
			return false
		}
		return true
	})
}
