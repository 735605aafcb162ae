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
package parsers

import (
	"context"
	"io"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/changelog/accessors"
	"www.velocidex.com/golang/changelog/changelog"
	"www.velocidex.com/golang/changelog/constants"
	"www.velocidex.com/golang/changelog/utils"
	vql_subsystem "www.velocidex.com/golang/changelog/vql"
	"www.velocidex.com/golang/vfilter"
	"www.velocidex.com/golang/vfilter/arg_parser"
)

type ChangeLogPluginArgs struct {
	Root       string `vfilter:"optional,field=root,doc=Directory containing the rotated change logs (default from config)."`
	Glob       string `vfilter:"optional,field=glob,doc=Pattern of the log file names (default from config)."`
	Accessor   string `vfilter:"optional,field=accessor,doc=The accessor to use."`
	BufferSize int    `vfilter:"optional,field=buffer_size,doc=Maximum size of line buffer."`
}

type ChangeLogPlugin struct{}

func (self ChangeLogPlugin) Info(scope vfilter.Scope, type_map *vfilter.TypeMap) *vfilter.PluginInfo {
	return &vfilter.PluginInfo{
		Name:     "parse_change_log",
		Doc:      "Parse the server's rotated change logs into change records.",
		ArgType:  type_map.AddType(scope, &ChangeLogPluginArgs{}),
		Metadata: vql_subsystem.VQLMetadata().Permissions(constants.FILESYSTEM_READ).Build(),
	}
}

func (self ChangeLogPlugin) Call(
	ctx context.Context, scope vfilter.Scope,
	args *ordereddict.Dict) <-chan vfilter.Row {
	output_chan := make(chan vfilter.Row)

	go func() {
		defer close(output_chan)
		defer vql_subsystem.RegisterMonitor(ctx, "parse_change_log", args)()
		defer utils.RecoverVQL(scope)

		arg := &ChangeLogPluginArgs{}
		err := arg_parser.ExtractArgsWithContext(ctx, scope, args, arg)
		if err != nil {
			scope.Log("parse_change_log: %v", err)
			return
		}

		config_obj := vql_subsystem.GetConfigOrDefault(scope)
		if config_obj.ChangeLog == nil {
			scope.Log("parse_change_log: %v", utils.InvalidConfigError)
			return
		}

		accessor, err := accessors.GetAccessor(
			utils.FirstNonEmpty(arg.Accessor, config_obj.ChangeLog.Accessor),
			scope)
		if err != nil {
			scope.Log("parse_change_log: %v", err)
			return
		}

		options := []changelog.Option{changelog.WithAccessor(accessor)}
		if arg.BufferSize > 0 {
			options = append(options, changelog.WithBufferSize(arg.BufferSize))
		}

		cursor, err := changelog.NewChangeLogCursor(
			config_obj, arg.Root, arg.Glob, options...)
		if err != nil {
			scope.Log("parse_change_log: %v", err)
			return
		}
		defer cursor.Close()

		for {
			record, err := cursor.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				scope.Log("parse_change_log: %v", err)
				return
			}

			select {
			case <-ctx.Done():
				return

			case output_chan <- record.ToDict():
			}
		}
	}()

	return output_chan
}

type ChangeLogSchemaFunction struct{}

func (self ChangeLogSchemaFunction) Info(
	scope vfilter.Scope, type_map *vfilter.TypeMap) *vfilter.FunctionInfo {
	return &vfilter.FunctionInfo{
		Name: "change_log_schema",
		Doc:  "The columns produced by parse_change_log().",
	}
}

func (self ChangeLogSchemaFunction) Call(
	ctx context.Context, scope vfilter.Scope,
	args *ordereddict.Dict) vfilter.Any {
	result := []*ordereddict.Dict{}
	for _, column := range changelog.Schema() {
		result = append(result, ordereddict.NewDict().
			Set("Name", column.Name).
			Set("Type", column.Type))
	}
	return result
}

func init() {
	vql_subsystem.RegisterPlugin(&ChangeLogPlugin{})
	vql_subsystem.RegisterFunction(&ChangeLogSchemaFunction{})
}
