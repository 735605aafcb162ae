package changelog

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-errors/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/suite"
	"www.velocidex.com/golang/changelog/accessors/memory"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
	"www.velocidex.com/golang/changelog/logging"
	"www.velocidex.com/golang/changelog/utils"
	"www.velocidex.com/golang/changelog/vtesting"
	"www.velocidex.com/golang/changelog/vtesting/assert"
)

const (
	logDir  = "/opt/server/logs"
	pattern = "cs_server_changes*.log*"
)

type CursorTestSuite struct {
	suite.Suite
	config_obj *config_proto.Config
	accessor   *memory.MemoryFileSystemAccessor
}

func (self *CursorTestSuite) SetupTest() {
	self.config_obj = vtesting.GetTestConfig(self.T())
	self.accessor = memory.NewMemoryFileSystemAccessor()
	self.accessor.AddDirectory(logDir)

	logging.Reset()
	logging.ClearMemoryLogs()
}

func (self *CursorTestSuite) setFile(name, data string, idx int) string {
	path := logDir + "/" + name
	self.accessor.SetFile(path, []byte(data), vtesting.FileTime(idx))
	return path
}

func (self *CursorTestSuite) newCursor(options ...Option) *ChangeLogCursor {
	options = append(options, WithAccessor(self.accessor))
	cursor, err := NewChangeLogCursor(self.config_obj, logDir, pattern, options...)
	assert.NoError(self.T(), err)
	return cursor
}

func (self *CursorTestSuite) readAll(cursor *ChangeLogCursor) []*Record {
	result := []*Record{}
	for {
		record, err := cursor.Next()
		if err == io.EOF {
			return result
		}
		assert.NoError(self.T(), err)
		result = append(result, record)
	}
}

func messages(records []*Record) []string {
	result := []string{}
	for _, record := range records {
		result = append(result, utils.ToString(record.Message))
	}
	return result
}

func (self *CursorTestSuite) TestSelectLogFiles() {
	self.setFile("cs_server_changes.log.2", "", 2)
	self.setFile("cs_server_changes.log", "", 3)
	self.setFile("cs_server_changes.log.1", "", 1)

	// Same mtime: ordered by path.
	self.setFile("CS_SERVER_CHANGES.log.b", "", 0)
	self.setFile("CS_SERVER_CHANGES.log.a", "", 0)

	self.setFile("cs_server_events.log", "", 0)
	self.accessor.AddDirectory(logDir + "/cs_server_changes.log.d")

	files, err := SelectLogFiles(self.config_obj, self.accessor, logDir, pattern)
	assert.NoError(self.T(), err)

	names := []string{}
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.Equal(self.T(), []string{
		"CS_SERVER_CHANGES.log.a",
		"CS_SERVER_CHANGES.log.b",
		"cs_server_changes.log.1",
		"cs_server_changes.log.2",
		"cs_server_changes.log",
	}, names)

	vtesting.MemoryLogsContain(self.T(), "Selected 5 files")

	// A missing directory is not an error.
	files, err = SelectLogFiles(self.config_obj, self.accessor, "/nonexistent", pattern)
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), 0, len(files))

	_, err = SelectLogFiles(self.config_obj, self.accessor, logDir, "cs_[server")
	assert.Error(self.T(), err)
}

func (self *CursorTestSuite) TestOrderAcrossFiles() {
	for idx, name := range []string{"log.3", "log.1", "log.2"} {
		self.setFile("cs_server_changes."+name,
			"2024-03-01 10:00:00 IMPORTING\n"+name+" first\n"+
				"2024-03-01 10:00:00 IMPORTING\n"+name+" second\n", 10-idx)
	}

	cursor := self.newCursor()
	defer cursor.Close()

	assert.Equal(self.T(), []string{
		"log.2 first", "log.2 second",
		"log.1 first", "log.1 second",
		"log.3 first", "log.3 second",
	}, messages(self.readAll(cursor)))
}

func (self *CursorTestSuite) TestEmptyDirectory() {
	for _, root := range []string{logDir, "/nonexistent"} {
		cursor, err := NewChangeLogCursor(self.config_obj, root, pattern,
			WithAccessor(self.accessor))
		assert.NoError(self.T(), err)

		assert.Equal(self.T(), 11, len(cursor.Schema()))
		assert.Equal(self.T(), cursor.Schema(), cursor.Schema())

		_, err = cursor.NextRow()
		assert.Equal(self.T(), io.EOF, err)
		assert.NoError(self.T(), cursor.Close())
	}
}

func (self *CursorTestSuite) TestHeaderOnlyFile() {
	self.setFile("cs_server_changes.log",
		"2024-03-01 10:00:00 CORP/alice saved following changes\n", 1)

	cursor := self.newCursor()
	defer cursor.Close()

	row, err := cursor.NextRow()
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), 11, len(row))
	assert.Equal(self.T(), int64(-1), row[1])
	assert.Equal(self.T(), "CORP", row[2])
	assert.Equal(self.T(), "alice", row[3])
	assert.Nil(self.T(), row[10])

	_, err = cursor.NextRow()
	assert.Equal(self.T(), io.EOF, err)
}

// A message at the end of one file continues into the next file
// unless the next file starts with a structural line.
func (self *CursorTestSuite) TestMessageAcrossFiles() {
	self.setFile("cs_server_changes.log.1",
		"2024-03-01 10:00:00 IMPORTING\nfirst part", 1)
	self.setFile("cs_server_changes.log.2",
		"second part\n2024-03-01 11:00:00 IMPORTING\nthird part\n", 2)
	self.setFile("cs_server_changes.log.3",
		"CREATED TABLE /db/t (3)\n", 3)

	cursor := self.newCursor()
	defer cursor.Close()

	records := self.readAll(cursor)
	assert.Equal(self.T(), []string{
		"first part\nsecond part", "third part", "",
	}, messages(records))

	// The operation line shares the header of the previous file.
	assert.Equal(self.T(), "CREATED", *records[2].Operation)
	assertTime(self.T(), at(11, 0), records[2].ChangeTime)
}

func (self *CursorTestSuite) TestCompressedFiles() {
	plain := "2024-03-01 10:00:00 IMPORTING\nplain\n"

	gz := &bytes.Buffer{}
	w := gzip.NewWriter(gz)
	_, err := w.Write([]byte("2024-03-01 10:00:00 IMPORTING\ngzipped\n"))
	assert.NoError(self.T(), err)
	assert.NoError(self.T(), w.Close())

	encoder, err := zstd.NewWriter(nil)
	assert.NoError(self.T(), err)
	zstd_data := encoder.EncodeAll(
		[]byte("2024-03-01 10:00:00 IMPORTING\nzstd\n"), nil)
	encoder.Close()

	self.setFile("cs_server_changes.log", plain, 3)
	self.setFile("cs_server_changes.log.1.gz", gz.String(), 2)
	self.setFile("cs_server_changes.log.2.zst", string(zstd_data), 1)

	cursor := self.newCursor()
	defer cursor.Close()

	assert.Equal(self.T(), []string{"zstd", "gzipped", "plain"},
		messages(self.readAll(cursor)))
}

func (self *CursorTestSuite) TestLineEndings() {
	self.setFile("cs_server_changes.log",
		"\xef\xbb\xbf2024-03-01 10:00:00 IMPORTING\r\nfirst\r\nsecond\r\n", 1)

	cursor := self.newCursor()
	defer cursor.Close()

	records := self.readAll(cursor)
	assert.Equal(self.T(), 1, len(records))
	assert.Equal(self.T(), "IMPORTING", *records[0].Operation)
	assert.Equal(self.T(), "first\nsecond", *records[0].Message)
}

func (self *CursorTestSuite) TestOpenFailureSkipped() {
	self.setFile("cs_server_changes.log.1",
		"2024-03-01 10:00:00 IMPORTING\none\n", 1)
	path := self.setFile("cs_server_changes.log.2",
		"2024-03-01 10:00:00 IMPORTING\ntwo\n", 2)
	self.setFile("cs_server_changes.log.3",
		"2024-03-01 10:00:00 IMPORTING\nthree\n", 3)

	self.accessor.SetOpenError(path, errors.New("file was rotated away"))

	open_errors, _ := utils.GetCounterValue(fileOpenErrors)
	opened, _ := utils.GetCounterValue(filesOpened)

	cursor := self.newCursor()
	defer cursor.Close()

	assert.Equal(self.T(), []string{"one", "three"},
		messages(self.readAll(cursor)))

	value, _ := utils.GetCounterValue(fileOpenErrors)
	assert.Equal(self.T(), open_errors+1, value)

	value, _ = utils.GetCounterValue(filesOpened)
	assert.Equal(self.T(), opened+2, value)

	vtesting.MemoryLogsContain(self.T(), "Skipping .+cs_server_changes.log.2")
}

func (self *CursorTestSuite) TestReadError() {
	data := "2024-03-01 10:00:00 IMPORTING\none\n" +
		"2024-03-01 11:00:00 IMPORTING\ntwo\n"
	path := self.setFile("cs_server_changes.log", data, 1)

	io_error := errors.New("I/O error")
	self.accessor.SetReadError(path, strings.Index(data, "two"), io_error)

	cursor := self.newCursor()
	defer cursor.Close()

	record, err := cursor.Next()
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), "one", *record.Message)

	_, err = cursor.Next()
	assert.ErrorIs(self.T(), err, io_error)
	assert.Contains(self.T(), err.Error(), "cs_server_changes.log")

	// The cursor stays in the error state.
	_, err = cursor.NextRow()
	assert.ErrorIs(self.T(), err, io_error)
}

func (self *CursorTestSuite) TestLineTooLong() {
	self.setFile("cs_server_changes.log",
		"2024-03-01 10:00:00 IMPORTING\n", 1)

	cursor := self.newCursor(WithBufferSize(16))
	defer cursor.Close()

	_, err := cursor.Next()
	assert.ErrorIs(self.T(), err, bufio.ErrTooLong)
}

func (self *CursorTestSuite) TestMetrics() {
	self.setFile("cs_server_changes.log",
		"2024-03-01 10:00:00 IMPORTING\none\n\n"+
			"2024-03-01 11:00:00 IMPORTING\n", 1)

	lines, _ := utils.GetCounterValue(linesRead)
	rows, _ := utils.GetCounterValue(rowsEmitted)

	cursor := self.newCursor()
	defer cursor.Close()
	assert.Equal(self.T(), 2, len(self.readAll(cursor)))

	value, _ := utils.GetCounterValue(linesRead)
	assert.Equal(self.T(), lines+4, value)

	value, _ = utils.GetCounterValue(rowsEmitted)
	assert.Equal(self.T(), rows+2, value)
}

func (self *CursorTestSuite) TestClose() {
	self.setFile("cs_server_changes.log",
		"2024-03-01 10:00:00 IMPORTING\none\n"+
			"2024-03-01 11:00:00 IMPORTING\ntwo\n", 1)

	cursor := self.newCursor()
	_, err := cursor.Next()
	assert.NoError(self.T(), err)

	// Partial consumption then close.
	assert.NoError(self.T(), cursor.Close())
	assert.NoError(self.T(), cursor.Close())

	_, err = cursor.Next()
	assert.Equal(self.T(), io.EOF, err)
}

// Real files on disk, ordered by their modification times rather
// than their names.
func (self *CursorTestSuite) TestFileAccessor() {
	dir := self.T().TempDir()
	vtesting.WriteFileWithMtime(self.T(), dir, "cs_server_changes.log",
		[]byte("2024-03-01 12:00:00 CORP/alice saved following changes\n"+
			"7 43\nDELETED TABLE '/a/b' (5)\n"), vtesting.FileTime(2))
	vtesting.WriteFileWithMtime(self.T(), dir, "cs_server_changes.log.1",
		[]byte("2024-03-01 10:00:00 CORP/alice (17) ws01 saved following changes:\n"+
			"7 42\nUPDATED COLUMN /x/y (99)\n"), vtesting.FileTime(1))
	vtesting.WriteFileWithMtime(self.T(), dir, "unrelated.txt",
		[]byte("hello\n"), vtesting.FileTime(0))

	self.config_obj.ChangeLog.Directory = dir
	cursor, err := NewChangeLogCursor(self.config_obj, "", "")
	assert.NoError(self.T(), err)
	defer cursor.Close()

	files := cursor.Files()
	assert.Equal(self.T(), 2, len(files))
	assert.Equal(self.T(), filepath.Join(dir, "cs_server_changes.log.1"),
		files[0].FullPath())

	records := self.readAll(cursor)
	assert.Equal(self.T(), 2, len(records))
	assert.Equal(self.T(), int64(42), records[0].Cid)
	assert.Equal(self.T(), "/x/y", *records[0].ResourcePath)
	assert.Equal(self.T(), int64(43), records[1].Cid)
	assert.Equal(self.T(), "/a/b", *records[1].ResourcePath)
	assert.Equal(self.T(), "ws01", *records[1].Hostname)
}

func TestCursor(t *testing.T) {
	suite.Run(t, &CursorTestSuite{})
}
