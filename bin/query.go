package main

import (
	"context"
	"io"
	"os"

	"github.com/Velocidex/ordereddict"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/logging"
	"www.velocidex.com/golang/changelog/reporting"
	vql_subsystem "www.velocidex.com/golang/changelog/vql"
	"www.velocidex.com/golang/vfilter"
)

var (
	// Command line interface for VQL commands.
	query   = app.Command("query", "Run a VQL query")
	queries = query.Arg("queries", "The VQL Query to run.").
		Required().Strings()

	query_format = query.Flag("format", "Output format to use.").
			Default("json").Enum(reporting.Formats...)

	query_env_map = query.Flag("env", "Environment for the query.").
			StringMap()
)

func runQueries(ctx context.Context,
	config_obj *config_proto.Config,
	query_strings []string, env map[string]string,
	format string, out io.Writer) error {
	scope := vql_subsystem.MakeScopeWithConfig(config_obj)
	defer scope.Close()

	scope.SetLogger(logging.NewPlainLogger(config_obj, &logging.ToolComponent))

	env_dict := ordereddict.NewDict()
	for k, v := range env {
		env_dict.Set(k, v)
	}
	scope.AppendVars(env_dict)

	for _, query_string := range query_strings {
		vql, err := vfilter.Parse(query_string)
		if err != nil {
			return err
		}

		writer, err := reporting.NewRowWriter(format, nil, out)
		if err != nil {
			return err
		}

		for row := range vql.Eval(ctx, scope) {
			err = writer.Write(vfilter.RowToDict(ctx, scope, row))
			if err != nil {
				return err
			}
		}

		err = writer.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func doQuery() error {
	config_obj, err := load_config()
	if err != nil {
		return err
	}

	ctx, cancel := install_sig_handler()
	defer cancel()

	return runQueries(ctx, config_obj, *queries, *query_env_map,
		*query_format, os.Stdout)
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case query.FullCommand():
			err := doQuery()
			kingpin.FatalIfError(err, "query")

		default:
			return false
		}
		return true
	})
}
