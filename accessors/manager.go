package accessors

import (
	"sync"

	"github.com/Velocidex/ordereddict"
	"github.com/go-errors/errors"
	"www.velocidex.com/golang/changelog/constants"
	"www.velocidex.com/golang/vfilter"
)

var (
	GlobalDeviceManager = NewDefaultDeviceManager()
)

// A device manager maps accessor names to accessors.
type DeviceManager interface {
	GetAccessor(scheme string) (FileSystemAccessor, error)
	Copy() DeviceManager
	Clear()
	Register(scheme string, accessor FileSystemAccessor, description string)
}

// A query may carry its own device manager in the scope (used by
// tests to inject in memory filesystems), otherwise we use the
// global one.
func GetManager(scope vfilter.Scope) DeviceManager {
	if scope != nil {
		manager_any, pres := scope.Resolve(constants.SCOPE_DEVICE_MANAGER)
		if pres {
			manager, ok := manager_any.(DeviceManager)
			if ok {
				return manager
			}
		}
	}

	return GlobalDeviceManager
}

func GetAccessor(scheme string, scope vfilter.Scope) (FileSystemAccessor, error) {
	if scheme == "" {
		scheme = constants.DEFAULT_ACCESSOR
	}

	return GetManager(scope).GetAccessor(scheme)
}

type DefaultDeviceManager struct {
	mu           sync.Mutex
	handlers     map[string]FileSystemAccessor
	descriptions *ordereddict.Dict
}

func NewDefaultDeviceManager() *DefaultDeviceManager {
	return &DefaultDeviceManager{
		handlers:     make(map[string]FileSystemAccessor),
		descriptions: ordereddict.NewDict(),
	}
}

func (self *DefaultDeviceManager) GetAccessor(
	scheme string) (FileSystemAccessor, error) {

	self.mu.Lock()
	handler, pres := self.handlers[scheme]
	self.mu.Unlock()

	if pres {
		return handler, nil
	}
	return nil, errors.New("Unknown filesystem accessor " + scheme)
}

func (self *DefaultDeviceManager) Register(
	scheme string, accessor FileSystemAccessor, description string) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.handlers[scheme] = accessor
	self.descriptions.Set(scheme, description)
}

func (self *DefaultDeviceManager) DescribeAccessors() *ordereddict.Dict {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.descriptions
}

func (self *DefaultDeviceManager) Clear() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.handlers = make(map[string]FileSystemAccessor)
	self.descriptions = ordereddict.NewDict()
}

func (self *DefaultDeviceManager) Copy() DeviceManager {
	self.mu.Lock()
	defer self.mu.Unlock()

	result := NewDefaultDeviceManager()
	for k, v := range self.handlers {
		result.handlers[k] = v
	}

	result.descriptions = ordereddict.NewDict()
	result.descriptions.MergeFrom(self.descriptions)
	return result
}

func Register(
	scheme string, accessor FileSystemAccessor, description string) {
	GlobalDeviceManager.Register(scheme, accessor, description)
}

func DescribeAccessors() *ordereddict.Dict {
	return GlobalDeviceManager.DescribeAccessors()
}
