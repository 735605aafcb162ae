package logging

import (
	"log"
	"strings"

	config_proto "www.velocidex.com/golang/changelog/config/proto"
)

type logWriter struct {
	config_obj *config_proto.Config
	component  *string
}

func (self *logWriter) Write(b []byte) (int, error) {
	GetLogger(self.config_obj, self.component).
		Info("%s", strings.TrimRight(string(b), "\r\n"))
	return len(b), nil
}

// A standard library logger feeding into the component's logger. VQL
// scopes log through this.
func NewPlainLogger(
	config_obj *config_proto.Config, component *string) *log.Logger {
	return log.New(&logWriter{
		config_obj: config_obj,
		component:  component,
	}, "", 0)
}
