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
/*

  The VQL subsystem exposes the change log to queries.

  Plugins register themselves here from their init() functions and
  MakeScope() builds a scope containing all of them.
*/

package vql

import (
	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/changelog/config"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/constants"
	"www.velocidex.com/golang/vfilter"
	"www.velocidex.com/golang/vfilter/types"
)

var (
	exportedPlugins   []vfilter.PluginGeneratorInterface
	exportedFunctions []vfilter.FunctionInterface
)

func RegisterPlugin(plugin vfilter.PluginGeneratorInterface) {
	exportedPlugins = append(exportedPlugins, plugin)
}

func RegisterFunction(plugin vfilter.FunctionInterface) {
	exportedFunctions = append(exportedFunctions, plugin)
}

func MakeScope() vfilter.Scope {
	return vfilter.NewScope().
		AppendPlugins(exportedPlugins...).
		AppendFunctions(exportedFunctions...)
}

// A scope carrying the config for plugins to use.
func MakeScopeWithConfig(config_obj *config_proto.Config) vfilter.Scope {
	return MakeScope().AppendVars(ordereddict.NewDict().
		Set(constants.SCOPE_CONFIG, config_obj))
}

func GetConfig(scope vfilter.Scope) (*config_proto.Config, bool) {
	config_any, pres := scope.Resolve(constants.SCOPE_CONFIG)
	if !pres {
		return nil, false
	}

	config_obj, ok := config_any.(*config_proto.Config)
	return config_obj, ok && config_obj != nil
}

// Plugins fall back to the default config when the scope has none.
func GetConfigOrDefault(scope vfilter.Scope) *config_proto.Config {
	config_obj, ok := GetConfig(scope)
	if ok {
		return config_obj
	}
	return config.GetDefaultConfig()
}

// Describes all registered plugins.
func DescribePlugins() []*vfilter.PluginInfo {
	scope := MakeScope()
	defer scope.Close()

	type_map := types.NewTypeMap()
	result := []*vfilter.PluginInfo{}
	for _, plugin := range exportedPlugins {
		result = append(result, plugin.Info(scope, type_map))
	}
	return result
}
