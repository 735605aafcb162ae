package vql

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pluginMonitor = PluginMonitor{
		entries: make(map[uint64]*PluginMonitorEntry),
	}

	pluginsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vql_plugins_running",
		Help: "Number of VQL plugins currently running.",
	})
)

type PluginMonitorEntry struct {
	Name  string
	Args  *ordereddict.Dict
	Start time.Time
	Ctx   context.Context
}

type PluginMonitor struct {
	mu      sync.Mutex
	next_id uint64
	entries map[uint64]*PluginMonitorEntry
}

func (self *PluginMonitor) Register(
	ctx context.Context, name string, args *ordereddict.Dict) func() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.next_id++
	id := self.next_id
	self.entries[id] = &PluginMonitorEntry{
		Name:  name,
		Args:  args,
		Start: time.Now(),
		Ctx:   ctx,
	}
	pluginsRunning.Inc()

	return func() {
		self.mu.Lock()
		defer self.mu.Unlock()

		delete(self.entries, id)
		pluginsRunning.Dec()
	}
}

func (self *PluginMonitor) Report() []*ordereddict.Dict {
	self.mu.Lock()
	defer self.mu.Unlock()

	ids := make([]uint64, 0, len(self.entries))
	for id := range self.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := []*ordereddict.Dict{}
	for _, id := range ids {
		item := self.entries[id]
		ctx_done := "Running"
		if item.Ctx.Err() != nil {
			ctx_done = "Done"
		}

		result = append(result, ordereddict.NewDict().
			Set("Started", item.Start).
			Set("Plugin", item.Name).
			Set("Args", item.Args).
			Set("Duration", time.Since(item.Start).String()).
			Set("Ctx", ctx_done))
	}
	return result
}

// Call the returned function when the plugin exits.
func RegisterMonitor(
	ctx context.Context, name string, args *ordereddict.Dict) func() {
	return pluginMonitor.Register(ctx, name, args)
}

func RunningPlugins() []*ordereddict.Dict {
	return pluginMonitor.Report()
}
