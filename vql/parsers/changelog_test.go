package parsers

import (
	"context"
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/suite"
	"www.velocidex.com/golang/changelog/accessors"
	"www.velocidex.com/golang/changelog/accessors/memory"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/constants"
	"www.velocidex.com/golang/changelog/logging"
	"www.velocidex.com/golang/changelog/vql"
	"www.velocidex.com/golang/changelog/vtesting"
	"www.velocidex.com/golang/changelog/vtesting/assert"
	"www.velocidex.com/golang/changelog/vtesting/goldie"
	"www.velocidex.com/golang/vfilter"
)

const changeLog = `2024-03-01 10:15:00 CORP/alice (17) ws01 saved following changes:
7 42
UPDATED COLUMN /x/y (99)
2024-03-01 11:00:00 IMPORTING
line one
line two
`

type ChangeLogPluginTestSuite struct {
	suite.Suite
	config_obj *config_proto.Config
	scope      vfilter.Scope
	ctx        context.Context
	cancel     func()
}

func (self *ChangeLogPluginTestSuite) SetupTest() {
	self.config_obj = vtesting.GetTestConfig(self.T())

	accessor := memory.NewMemoryFileSystemAccessor()
	accessor.SetFile("/logs/cs_server_changes.log",
		[]byte(changeLog), vtesting.FileTime(1))
	accessor.SetFile("/logs/unrelated.log",
		[]byte("2024-03-01 10:15:00 IMPORTING\n"), vtesting.FileTime(2))

	manager := accessors.GlobalDeviceManager.Copy()
	manager.Register("memory", accessor, "In memory test filesystem")

	self.scope = vql.MakeScopeWithConfig(self.config_obj).AppendVars(
		ordereddict.NewDict().Set(constants.SCOPE_DEVICE_MANAGER, manager))
	self.ctx, self.cancel = context.WithCancel(context.Background())
}

func (self *ChangeLogPluginTestSuite) TearDownTest() {
	self.cancel()
	self.scope.Close()
}

func (self *ChangeLogPluginTestSuite) callPlugin(args *ordereddict.Dict) []vfilter.Row {
	result := []vfilter.Row{}
	for row := range (ChangeLogPlugin{}).Call(self.ctx, self.scope, args) {
		result = append(result, row)
	}
	return result
}

func (self *ChangeLogPluginTestSuite) TestPlugin() {
	rows := self.callPlugin(ordereddict.NewDict().
		Set("root", "/logs").
		Set("accessor", "memory"))

	goldie.AssertJson(self.T(), "parse_change_log", rows)

	// The monitor entry is removed once the plugin is done.
	assert.Equal(self.T(), 0, len(vql.RunningPlugins()))
}

func (self *ChangeLogPluginTestSuite) TestQuery() {
	query, err := vfilter.Parse(`
SELECT operation, message
FROM parse_change_log(root='/logs', accessor='memory')
WHERE operation = 'IMPORTING'`)
	assert.NoError(self.T(), err)

	rows := []*ordereddict.Dict{}
	for row := range query.Eval(self.ctx, self.scope) {
		rows = append(rows, vfilter.RowToDict(self.ctx, self.scope, row))
	}

	assert.Equal(self.T(), 1, len(rows))
	message, _ := rows[0].Get("message")
	assert.Equal(self.T(), "line one\nline two", message)
}

func (self *ChangeLogPluginTestSuite) TestMissingDirectory() {
	rows := self.callPlugin(ordereddict.NewDict().
		Set("root", "/nonexistent").
		Set("accessor", "memory"))
	assert.Equal(self.T(), 0, len(rows))

	// Unknown accessors produce no rows.
	rows = self.callPlugin(ordereddict.NewDict().
		Set("root", "/logs").
		Set("accessor", "nosuchaccessor"))
	assert.Equal(self.T(), 0, len(rows))
}

func (self *ChangeLogPluginTestSuite) TestMissingChangeLogConfig() {
	logging.Reset()
	logging.ClearMemoryLogs()

	scope := vql.MakeScopeWithConfig(&config_proto.Config{})
	defer scope.Close()
	scope.SetLogger(logging.NewPlainLogger(self.config_obj, &logging.ToolComponent))

	rows := []vfilter.Row{}
	for row := range (ChangeLogPlugin{}).Call(self.ctx, scope,
		ordereddict.NewDict().Set("root", "/logs")) {
		rows = append(rows, row)
	}
	assert.Equal(self.T(), 0, len(rows))
	vtesting.MemoryLogsContain(self.T(), "parse_change_log: InvalidConfigError")
}

func (self *ChangeLogPluginTestSuite) TestCancellation() {
	ctx, cancel := context.WithCancel(self.ctx)
	output_chan := (ChangeLogPlugin{}).Call(ctx, self.scope,
		ordereddict.NewDict().
			Set("root", "/logs").
			Set("accessor", "memory"))

	// Take one row then stop reading.
	<-output_chan
	cancel()

	for range output_chan {
	}
}

func (self *ChangeLogPluginTestSuite) TestSchemaFunction() {
	schema, ok := (ChangeLogSchemaFunction{}).Call(
		self.ctx, self.scope, ordereddict.NewDict()).([]*ordereddict.Dict)
	assert.True(self.T(), ok)
	assert.Equal(self.T(), 11, len(schema))

	name, _ := schema[0].Get("Name")
	assert.Equal(self.T(), "change_time", name)
}

func TestChangeLogPlugin(t *testing.T) {
	suite.Run(t, &ChangeLogPluginTestSuite{})
}
