package utils

import (
	"runtime"

	"www.velocidex.com/golang/vfilter"
)

// Plugins run in their own goroutine. Deferring this at the top of
// the goroutine logs a panic to the query log instead of crashing
// the process.
func RecoverVQL(scope vfilter.Scope) {
	r := recover()
	if r != nil {
		scope.Log("PANIC: %v\n", r)
		buffer := make([]byte, 4096)
		n := runtime.Stack(buffer, false /* all */)
		scope.Log("%s", buffer[:n])
	}
}
