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
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/Velocidex/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	config_proto "www.velocidex.com/golang/changelog/config/proto"
)

var (
	GenericComponent   = "Changelog"
	ToolComponent      = "ChangelogTool"
	ChangeLogComponent = "ChangelogParser"

	// When set, nothing is written to stderr. File and memory
	// logging are unaffected.
	SuppressLogging = false

	Manager *LogManager

	tag_regex         = regexp.MustCompile("<([a-z]+)>")
	closing_tag_regex = regexp.MustCompile("</[a-z]*>")

	all_levels = []logrus.Level{
		logrus.DebugLevel, logrus.InfoLevel,
		logrus.WarnLevel, logrus.ErrorLevel,
	}
)

type LogContext struct {
	*logrus.Logger
}

func (self *LogContext) Debug(format string, v ...interface{}) {
	self.Logger.Debug(fmt.Sprintf(format, v...))
}

func (self *LogContext) Info(format string, v ...interface{}) {
	self.Logger.Info(fmt.Sprintf(format, v...))
}

func (self *LogContext) Warn(format string, v ...interface{}) {
	self.Logger.Warn(fmt.Sprintf(format, v...))
}

func (self *LogContext) Error(format string, v ...interface{}) {
	self.Logger.Error(fmt.Sprintf(format, v...))
}

func (self *LogContext) LogWithLevel(level string, format string, v ...interface{}) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		self.Debug(format, v...)
	case "WARN", "WARNING":
		self.Warn(format, v...)
	case "ERROR":
		self.Error(format, v...)
	default:
		self.Info(format, v...)
	}
}

type LogManager struct {
	mu       sync.Mutex
	contexts map[*string]*LogContext
}

func (self *LogManager) Reset() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.contexts = make(map[*string]*LogContext)
}

func (self *LogManager) GetLogger(
	config_obj *config_proto.Config, component *string) *LogContext {
	self.mu.Lock()
	defer self.mu.Unlock()

	ctx, pres := self.contexts[component]
	if pres {
		return ctx
	}

	ctx, err := makeNewComponent(config_obj, component)
	if err != nil {
		Prelog("Unable to initialize logging for %v: %v", *component, err)
		ctx = &LogContext{Logger: newLogrus(config_obj)}
		ctx.Logger.Hooks.Add(memory_hook)
	}
	self.contexts[component] = ctx
	return ctx
}

func newLogrus(config_obj *config_proto.Config) *logrus.Logger {
	Log := logrus.New()
	Log.Out = io.Discard
	Log.Level = logrus.InfoLevel

	if config_obj != nil && config_obj.Logging != nil &&
		config_obj.Logging.Debug {
		Log.Level = logrus.DebugLevel
	}
	return Log
}

func makeNewComponent(
	config_obj *config_proto.Config, component *string) (*LogContext, error) {
	Log := newLogrus(config_obj)
	Log.Hooks.Add(memory_hook)

	if !SuppressLogging {
		stderr_map := lfshook.WriterMap{}
		for _, level := range all_levels {
			stderr_map[level] = os.Stderr
		}
		Log.Hooks.Add(lfshook.NewHook(stderr_map, &Formatter{}))
	}

	if config_obj != nil && config_obj.Logging != nil &&
		config_obj.Logging.OutputDirectory != "" {
		rotator, err := getRotator(config_obj, component)
		if err != nil {
			return nil, err
		}

		file_map := lfshook.WriterMap{}
		for _, level := range all_levels {
			file_map[level] = rotator
		}
		Log.Hooks.Add(lfshook.NewHook(file_map, &logrus.JSONFormatter{
			DisableHTMLEscape: true,
		}))
	}

	return &LogContext{Logger: Log}, nil
}

func getRotator(config_obj *config_proto.Config,
	component *string) (io.Writer, error) {
	base_directory := config_obj.Logging.OutputDirectory
	err := os.MkdirAll(base_directory, 0700)
	if err != nil {
		return nil, fmt.Errorf("Unable to create logging directory: %w", err)
	}

	base_filename := "changelog"
	if config_obj.Logging.SeparateLogsPerComponent {
		base_filename = strings.ToLower(*component)
	}

	max_age := config_obj.Logging.MaxAge
	if max_age == 0 {
		max_age = 365 * 24 * 60 * 60
	}

	rotation_time := config_obj.Logging.RotationTime
	if rotation_time == 0 {
		rotation_time = 7 * 24 * 60 * 60
	}

	return rotatelogs.New(
		filepath.Join(base_directory, base_filename+".%Y%m%d.log"),
		rotatelogs.WithLinkName(
			filepath.Join(base_directory, base_filename+".log")),
		rotatelogs.WithRotationTime(time.Duration(rotation_time)*time.Second),
		rotatelogs.WithMaxAge(time.Duration(max_age)*time.Second))
}

func GetLogger(config_obj *config_proto.Config, component *string) *LogContext {
	return Manager.GetLogger(config_obj, component)
}

// Drop all the cached loggers so they are rebuilt from the new
// config on next use.
func InitLogging(config_obj *config_proto.Config) error {
	Manager.Reset()

	for _, component := range []*string{
		&GenericComponent, &ToolComponent, &ChangeLogComponent} {
		ctx, err := makeNewComponent(config_obj, component)
		if err != nil {
			return err
		}

		Manager.mu.Lock()
		Manager.contexts[component] = ctx
		Manager.mu.Unlock()
	}
	return nil
}

func Reset() {
	Manager.Reset()
}

// Log before the config is loaded.
func Prelog(format string, v ...interface{}) {
	if SuppressLogging {
		return
	}
	fmt.Fprintf(os.Stderr, "[INFO] %v %s\n", time.Now().UTC().Format(time.RFC3339),
		clearTag(fmt.Sprintf(format, v...)))
}

type Formatter struct{}

func (self *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}

	levelText := strings.ToUpper(entry.Level.String())
	fmt.Fprintf(b, "[%s] %v %s ", levelText, entry.Time.UTC().Format(time.RFC3339),
		clearTag(strings.TrimRight(entry.Message, "\r\n")))

	if len(entry.Data) > 0 {
		serialized, _ := json.Marshal(entry.Data)
		fmt.Fprintf(b, "%s", serialized)
	}
	b.WriteString("\n")

	return b.Bytes(), nil
}

// Remove color tags like <green> and </> from the message.
func clearTag(message string) string {
	message = tag_regex.ReplaceAllString(message, "")
	return closing_tag_regex.ReplaceAllString(message, "")
}

func init() {
	Manager = &LogManager{
		contexts: make(map[*string]*LogContext),
	}
}
