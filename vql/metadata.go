package vql

import (
	"strings"

	"github.com/Velocidex/ordereddict"
)

type MetadataBuilder struct {
	*ordereddict.Dict
}

func (self *MetadataBuilder) Permissions(perms ...string) *MetadataBuilder {
	self.Set("permissions", strings.Join(perms, ","))
	return self
}

func (self *MetadataBuilder) Build() *ordereddict.Dict {
	return self.Dict
}

func VQLMetadata() *MetadataBuilder {
	return &MetadataBuilder{ordereddict.NewDict()}
}
