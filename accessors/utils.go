package accessors

import (
	"io"
	"time"

	"github.com/Velocidex/ordereddict"
)

// A FileInfo for files that do not exist on disk.
type VirtualFileInfo struct {
	Path    string
	Name_   string
	IsDir_  bool
	Size_   int64
	Mtime   time.Time
	Data_   *ordereddict.Dict
	RawData []byte
}

func (self *VirtualFileInfo) Name() string {
	return self.Name_
}

func (self *VirtualFileInfo) FullPath() string {
	return self.Path
}

func (self *VirtualFileInfo) ModTime() time.Time {
	return self.Mtime
}

func (self *VirtualFileInfo) Size() int64 {
	if self.RawData != nil {
		return int64(len(self.RawData))
	}
	return self.Size_
}

func (self *VirtualFileInfo) IsDir() bool {
	return self.IsDir_
}

func (self *VirtualFileInfo) Data() *ordereddict.Dict {
	if self.Data_ == nil {
		return ordereddict.NewDict()
	}
	return self.Data_
}

type VirtualReadSeekCloser struct {
	io.ReadSeeker
}

func (self VirtualReadSeekCloser) Close() error {
	return nil
}
