package file

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"www.velocidex.com/golang/changelog/accessors"
	"www.velocidex.com/golang/changelog/utils"
	"www.velocidex.com/golang/changelog/vtesting/assert"
)

type AccessorLinuxTestSuite struct {
	suite.Suite
	tmpdir string
}

func (self *AccessorLinuxTestSuite) SetupTest() {
	self.tmpdir = self.T().TempDir()
}

func (self *AccessorLinuxTestSuite) TestReadDir() {
	mtime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, name := range []string{"b.log", "a.log"} {
		path := filepath.Join(self.tmpdir, name)
		assert.NoError(self.T(), os.WriteFile(path, []byte("hello"), 0600))
		assert.NoError(self.T(), os.Chtimes(path, mtime, mtime))
	}
	assert.NoError(self.T(), os.Mkdir(filepath.Join(self.tmpdir, "subdir"), 0700))

	accessor, err := accessors.GetAccessor("file", nil)
	assert.NoError(self.T(), err)

	files, err := accessor.ReadDir(self.tmpdir)
	assert.NoError(self.T(), err)

	names := []string{}
	for _, f := range files {
		names = append(names, f.Name())
		if !f.IsDir() {
			assert.Equal(self.T(), int64(5), f.Size())
			assert.True(self.T(), mtime.Equal(f.ModTime()))
			assert.Equal(self.T(), filepath.Join(self.tmpdir, f.Name()), f.FullPath())
		}
	}
	sort.Strings(names)
	assert.Equal(self.T(), []string{"a.log", "b.log", "subdir"}, names)
}

func (self *AccessorLinuxTestSuite) TestOpen() {
	path := filepath.Join(self.tmpdir, "a.log")
	assert.NoError(self.T(), os.WriteFile(path, []byte("hello"), 0600))

	accessor := OSFileSystemAccessor{}
	fd, err := accessor.Open(path)
	assert.NoError(self.T(), err)

	before, _ := utils.GetGaugeValue(fileAccessorCurrentOpened)

	data, err := io.ReadAll(fd)
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), "hello", string(data))

	// Close is idempotent and only decrements the gauge once.
	assert.NoError(self.T(), fd.Close())
	assert.NoError(self.T(), fd.Close())

	after, _ := utils.GetGaugeValue(fileAccessorCurrentOpened)
	assert.Equal(self.T(), before-1, after)
}

func (self *AccessorLinuxTestSuite) TestMissing() {
	accessor := OSFileSystemAccessor{}
	_, err := accessor.ReadDir(filepath.Join(self.tmpdir, "nonexistent"))
	assert.Error(self.T(), err)

	_, err = accessor.Open(filepath.Join(self.tmpdir, "nonexistent.log"))
	assert.Error(self.T(), err)

	_, err = accessor.Lstat(filepath.Join(self.tmpdir, "nonexistent.log"))
	assert.Error(self.T(), err)
}

func TestAccessorLinux(t *testing.T) {
	suite.Run(t, &AccessorLinuxTestSuite{})
}
