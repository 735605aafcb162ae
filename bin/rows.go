package main

import (
	"context"
	"io"
	"os"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
	"www.velocidex.com/golang/changelog/changelog"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/logging"
	"www.velocidex.com/golang/changelog/reporting"
)

var (
	rows_command = app.Command("rows", "Parse the change logs and print the records.")

	rows_root = rows_command.Flag("root",
		"Directory containing the change logs (default from config).").String()

	rows_glob = rows_command.Flag("glob",
		"Pattern of the change log file names (default from config).").String()

	rows_format = rows_command.Flag("format", "Output format to use.").
			Default("json").Enum(reporting.Formats...)

	rows_output = rows_command.Flag("output", "A file to store the output.").
			Default("").String()

	rows_limit = rows_command.Flag("limit", "Stop after this many rows (0 for all).").
			Default("0").Int()
)

type rowsOptions struct {
	root, glob, format string
	limit              int
}

func writeRows(ctx context.Context,
	config_obj *config_proto.Config,
	options rowsOptions, out io.Writer) (int, error) {
	cursor, err := changelog.NewChangeLogCursor(
		config_obj, options.root, options.glob)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	writer, err := reporting.NewRowWriter(
		options.format, changelog.ColumnNames(), out)
	if err != nil {
		return 0, err
	}

	count := 0
	for options.limit == 0 || count < options.limit {
		if ctx.Err() != nil {
			break
		}

		record, err := cursor.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return count, err
		}

		err = writer.Write(record.ToDict())
		if err != nil {
			return count, err
		}
		count++
	}

	return count, writer.Close()
}

func doRows() error {
	config_obj, err := load_config()
	if err != nil {
		return err
	}

	ctx, cancel := install_sig_handler()
	defer cancel()

	var out io.Writer = os.Stdout
	if *rows_output != "" {
		fd, err := os.OpenFile(*rows_output,
			os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return err
		}
		defer fd.Close()
		out = fd
	}

	count, err := writeRows(ctx, config_obj, rowsOptions{
		root:   *rows_root,
		glob:   *rows_glob,
		format: *rows_format,
		limit:  *rows_limit,
	}, out)

	logger := logging.GetLogger(config_obj, &logging.ToolComponent)
	logger.Info("<green>rows</>: Wrote %v rows", count)

	return err
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case rows_command.FullCommand():
			err := doRows()
			kingpin.FatalIfError(err, "rows")

		default:
			return false
		}
		return true
	})
}
