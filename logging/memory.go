package logging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const MAX_MEMORY_LOGS = 1000

var memory_hook = &memoryHook{}

// Keeps the most recent log lines in memory so tests can inspect
// them.
type memoryHook struct {
	mu    sync.Mutex
	lines []string
}

func (self *memoryHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (self *memoryHook) Fire(entry *logrus.Entry) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", strings.ToUpper(entry.Level.String()),
		clearTag(entry.Message))
	self.lines = append(self.lines, line)
	if len(self.lines) > MAX_MEMORY_LOGS {
		self.lines = self.lines[len(self.lines)-MAX_MEMORY_LOGS:]
	}
	return nil
}

func GetMemoryLogs() []string {
	memory_hook.mu.Lock()
	defer memory_hook.mu.Unlock()

	return append([]string{}, memory_hook.lines...)
}

func ClearMemoryLogs() {
	memory_hook.mu.Lock()
	defer memory_hook.mu.Unlock()

	memory_hook.lines = nil
}
