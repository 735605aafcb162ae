package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/vtesting"
	"www.velocidex.com/golang/changelog/vtesting/assert"
)

const testChangeLog = `2024-03-01 10:15:00 CORP/alice (17) ws01 saved following changes:
7 42
UPDATED COLUMN /x/y (99)
2024-03-01 11:00:00 IMPORTING
line one
`

type CommandsTestSuite struct {
	suite.Suite
	config_obj *config_proto.Config
}

func (self *CommandsTestSuite) SetupTest() {
	dir := self.T().TempDir()
	vtesting.WriteFileWithMtime(self.T(), dir, "cs_server_changes.log",
		[]byte(testChangeLog), vtesting.FileTime(1))

	self.config_obj = vtesting.GetTestConfig(self.T())
	self.config_obj.ChangeLog.Directory = dir
}

func (self *CommandsTestSuite) TestRows() {
	out := &bytes.Buffer{}
	count, err := writeRows(context.Background(), self.config_obj,
		rowsOptions{format: "jsonl"}, out)
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), 2, count)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(self.T(), 2, len(lines))
	assert.Contains(self.T(), lines[0], `"resource_path":"/x/y"`)
	assert.Contains(self.T(), lines[1], `"message":"line one"`)

	out.Reset()
	count, err = writeRows(context.Background(), self.config_obj,
		rowsOptions{format: "csv", limit: 1}, out)
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), 1, count)
	assert.True(self.T(), strings.HasPrefix(out.String(),
		"change_time,cid,domain,user,userid,hostname,operation,"+
			"resource_id,resource_path,resource_type,message\n"))
}

func (self *CommandsTestSuite) TestCancelledRows() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := writeRows(ctx, self.config_obj,
		rowsOptions{format: "jsonl"}, &bytes.Buffer{})
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), 0, count)
}

func (self *CommandsTestSuite) TestSchema() {
	out := &bytes.Buffer{}
	assert.NoError(self.T(), writeSchema("csv", out))
	assert.Equal(self.T(), 12, len(strings.Split(strings.TrimSpace(out.String()), "\n")))
	assert.Contains(self.T(), out.String(), "resource_path,string\n")
}

func (self *CommandsTestSuite) TestVersion() {
	out := &bytes.Buffer{}
	assert.NoError(self.T(), writeVersion(out, false))
	assert.Contains(self.T(), out.String(), "name: changelog\n")
	assert.Contains(self.T(), out.String(),
		"columns: change_time,cid,domain,user,userid,hostname,operation,"+
			"resource_id,resource_path,resource_type,message\n")
	assert.NotContains(self.T(), out.String(), "Build Info")
}

func (self *CommandsTestSuite) TestQuery() {
	out := &bytes.Buffer{}
	err := runQueries(context.Background(), self.config_obj, []string{
		"SELECT Greeting FROM scope()",
	}, map[string]string{"Greeting": "hello"}, "jsonl", out)
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), "{\"Greeting\":\"hello\"}\n", out.String())

	out.Reset()
	err = runQueries(context.Background(), self.config_obj, []string{
		"SELECT operation FROM parse_change_log()",
	}, nil, "jsonl", out)
	assert.NoError(self.T(), err)
	assert.Contains(self.T(), out.String(), `"operation":"IMPORTING"`)

	err = runQueries(context.Background(), self.config_obj, []string{
		"SELECT FROM",
	}, nil, "jsonl", out)
	assert.Error(self.T(), err)
}

func TestCommands(t *testing.T) {
	suite.Run(t, &CommandsTestSuite{})
}
