/*
Package service implements the Service Locator: a registry of
process-wide collaborators (input, physics, audio, camera, ...) split into
static services, registered once at construction and never replaced, and
dynamic services, registered and deregistered at runtime.

Services that implement UpdateService are additionally appended to an
ordered update list; Locator.UpdateService invokes PreUpdate then Update on
each in registration order every frame.
*/
package service

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
)

// UpdateService is implemented by any service that wants a per-frame
// callback. PreUpdate runs before Update for every service in the list,
// still in registration order.
type UpdateService interface {
	PreUpdate(dt float64)
	Update(dt float64)
}

// StaticServiceTag is embedded by services registered once at construction
// and never replaced for the locator's lifetime. It is a marker only:
// neither RegisterStatic nor RegisterDynamic checks whether a service
// embeds it.
type StaticServiceTag struct{}

func (StaticServiceTag) staticService() {}

// staticMarker is satisfied by any type embedding StaticServiceTag.
type staticMarker interface {
	staticService()
}

type registration struct {
	value       any
	static      bool
	updateIndex int // -1 if the service doesn't implement UpdateService
}

// Locator is the process-wide service registry. The zero value is not
// usable; construct with New.
type Locator struct {
	mu             sync.RWMutex
	services       map[reflect.Type]*registration
	updateServices []UpdateService
}

// New constructs an empty Locator.
func New() *Locator {
	return &Locator{services: make(map[reflect.Type]*registration)}
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterStatic registers svc as the locator's singleton instance of T.
// Re-registration of a static service is a programming contract violation
// and is fatal.
func RegisterStatic[T any](loc *Locator, svc T) {
	key := keyOf[T]()

	loc.mu.Lock()
	defer loc.mu.Unlock()

	if _, exists := loc.services[key]; exists {
		panic(bark.AddTrace(fmt.Errorf("service: static service %s already registered", key)))
	}
	loc.register(key, svc, true)
}

// RegisterDynamic registers svc as a runtime-addable/removable service.
// Double registration of a dynamic service is fatal.
func RegisterDynamic[T any](loc *Locator, svc T) {
	key := keyOf[T]()

	loc.mu.Lock()
	defer loc.mu.Unlock()

	if _, exists := loc.services[key]; exists {
		panic(bark.AddTrace(fmt.Errorf("service: dynamic service %s already registered", key)))
	}
	loc.register(key, svc, false)
}

func (loc *Locator) register(key reflect.Type, svc any, static bool) {
	reg := &registration{value: svc, static: static, updateIndex: -1}
	if updater, ok := any(svc).(UpdateService); ok {
		reg.updateIndex = len(loc.updateServices)
		loc.updateServices = append(loc.updateServices, updater)
	}
	loc.services[key] = reg
}

// UnregisterDynamic removes T's dynamic registration. Swap-pops the update
// list slot if T implemented UpdateService, fixing up the swapped
// service's stored index.
func UnregisterDynamic[T any](loc *Locator) error {
	key := keyOf[T]()

	loc.mu.Lock()
	defer loc.mu.Unlock()

	reg, ok := loc.services[key]
	if !ok {
		return fmt.Errorf("service: %s is not registered", key)
	}
	if reg.static {
		panic(bark.AddTrace(fmt.Errorf("service: cannot unregister static service %s", key)))
	}

	if reg.updateIndex >= 0 {
		last := len(loc.updateServices) - 1
		loc.updateServices[reg.updateIndex] = loc.updateServices[last]
		loc.updateServices = loc.updateServices[:last]
		if reg.updateIndex != last {
			// Find the registration whose service moved into reg.updateIndex
			// and fix up its stored index.
			moved := loc.updateServices[reg.updateIndex]
			for _, other := range loc.services {
				if other.updateIndex == last && sameUpdateService(other, moved) {
					other.updateIndex = reg.updateIndex
					break
				}
			}
		}
	}

	delete(loc.services, key)
	return nil
}

func sameUpdateService(reg *registration, updater UpdateService) bool {
	u, ok := any(reg.value).(UpdateService)
	return ok && u == updater
}

// Get returns T's registered instance and whether it was found.
func Get[T any](loc *Locator) (T, bool) {
	key := keyOf[T]()

	loc.mu.RLock()
	defer loc.mu.RUnlock()

	reg, ok := loc.services[key]
	if !ok {
		var zero T
		return zero, false
	}
	return reg.value.(T), true
}

// MustGet returns T's registered instance, panicking (fatal) if
// it is unregistered. Intended for static services a system declares as a
// hard dependency.
func MustGet[T any](loc *Locator) T {
	v, ok := Get[T](loc)
	if !ok {
		panic(bark.AddTrace(fmt.Errorf("service: required service %s not registered", keyOf[T]())))
	}
	return v
}

// UpdateService invokes PreUpdate then Update on every registered
// UpdateService in registration order, holding the locator's shared lock
// for the duration of the dispatch ("Services update before
// any level; within the service list, order is registration order").
func (loc *Locator) UpdateService(dt float64) {
	loc.mu.RLock()
	defer loc.mu.RUnlock()
	for _, s := range loc.updateServices {
		s.PreUpdate(dt)
		s.Update(dt)
	}
}
