package ecs

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
)

// TypeID is the dense, small integer assigned to a component type in
// registration order. It doubles as the bit index into a ComponentMask, so
// it must stay below the configured MaxMaskWidth (256 by default).
type TypeID uint32

// Component is anything that can be attached to an entity and used in a
// query. ID returns the type's dense TypeID; Type returns the underlying Go
// type, used for diagnostics and reflection-driven column construction.
type Component interface {
	ID() TypeID
	Type() reflect.Type
}

// FieldDescriptor describes one scalar field of an SoA-decomposed
// component. Chunks store one column run per field rather than one run of
// the whole struct.
type FieldDescriptor struct {
	Name   string
	Offset uintptr
	Type   reflect.Type
}

// ComponentTypeInfo is the registry entry for a single component type:
// {type_id, byte_size, alignment, is_sparse, SoA field descriptors} per
// at registration time.
type ComponentTypeInfo struct {
	ID     TypeID
	Name   string
	GoType reflect.Type
	Size   uintptr
	Align  uintptr
	Sparse bool
	Fields []FieldDescriptor // empty unless the component opted into SoA decomposition
}

// SoADecomposer is implemented by a component that wants its chunk column
// split into one run per scalar field rather than one run of the whole
// struct. AoS-structured components that don't implement it are stored as a
// single field spanning their full size.
type SoADecomposer interface {
	SoAFields() []string
}

type componentTypeRegistry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*ComponentTypeInfo
	byID   []*ComponentTypeInfo
}

// globalComponentRegistry is the process-wide Component Type Registry
// It must be populated before any
// EntityManager is constructed and is read-mostly thereafter.
var globalComponentRegistry = &componentTypeRegistry{
	byType: make(map[reflect.Type]*ComponentTypeInfo),
}

// RegisterOption configures a component's registry entry.
type RegisterOption func(*ComponentTypeInfo)

// Sparse marks the component for out-of-chunk, entity-keyed storage rather
// than a chunk column.
func Sparse() RegisterOption {
	return func(info *ComponentTypeInfo) { info.Sparse = true }
}

// registerType idempotently registers T with the global registry and
// returns its metadata, assigning the next dense TypeID on first sight.
func registerType[T any](opts ...RegisterOption) *ComponentTypeInfo {
	goType := reflect.TypeOf((*T)(nil)).Elem()

	globalComponentRegistry.mu.Lock()
	defer globalComponentRegistry.mu.Unlock()

	if info, ok := globalComponentRegistry.byType[goType]; ok {
		return info
	}

	info := &ComponentTypeInfo{
		ID:     TypeID(len(globalComponentRegistry.byID)),
		Name:   goType.String(),
		GoType: goType,
		Size:   goType.Size(),
		Align:  uintptr(goType.Align()),
	}
	for _, opt := range opts {
		opt(info)
	}

	var zero T
	if dec, ok := any(&zero).(SoADecomposer); ok {
		for _, name := range dec.SoAFields() {
			field, found := goType.FieldByName(name)
			if !found {
				panic(bark.AddTrace(fmt.Errorf("ecs: SoA field %q not found on %s", name, goType)))
			}
			info.Fields = append(info.Fields, FieldDescriptor{
				Name:   name,
				Offset: field.Offset,
				Type:   field.Type,
			})
		}
	}

	globalComponentRegistry.byType[goType] = info
	globalComponentRegistry.byID = append(globalComponentRegistry.byID, info)
	return info
}

// typeInfoByID looks up registry metadata by TypeID. Querying an
// id that was never registered is a programming contract violation.
func typeInfoByID(id TypeID) *ComponentTypeInfo {
	globalComponentRegistry.mu.RLock()
	defer globalComponentRegistry.mu.RUnlock()
	if int(id) >= len(globalComponentRegistry.byID) {
		panic(bark.AddTrace(UnknownTypeError{TypeID: id}))
	}
	return globalComponentRegistry.byID[id]
}

// componentHandle is the concrete Component implementation threaded through
// queries, chunks, and accessors.
type componentHandle struct {
	info *ComponentTypeInfo
}

func (c componentHandle) ID() TypeID         { return c.info.ID }
func (c componentHandle) Type() reflect.Type { return c.info.GoType }

// AccessibleComponent is a typed handle to a registered component. It
// carries the Component identity plus the typed accessors used to read and
// write its chunk column.
type AccessibleComponent[T any] struct {
	Component
	info *ComponentTypeInfo
}

// RegisterComponent registers T (idempotently) with the global component
// type registry and returns a typed handle for declaring queries and
// accessing chunk columns.
func RegisterComponent[T any](opts ...RegisterOption) AccessibleComponent[T] {
	info := registerType[T](opts...)
	return AccessibleComponent[T]{
		Component: componentHandle{info: info},
		info:      info,
	}
}

// GetFromCursor returns the component value for the entity at the cursor's
// current position in its current chunk.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(cursor.currentChunk, cursor.CurrentRow())
}

// GetFromCursorSafe is GetFromCursor guarded by a membership check.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !cursor.currentChunk.mask.ContainsAll(maskForTypeID(c.info.ID)) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

// Get returns the component value for the given row of the given chunk.
// Panics (a fatal contract violation) if the chunk has no whole-value
// column for T: T is absent from the mask, or is stored as SoA fields or
// in a sparse set.
func (c AccessibleComponent[T]) Get(chunk *Chunk, row int) *T {
	col, ok := getColumn[T](chunk, c.info.ID)
	if !ok {
		panic(bark.AddTrace(fmt.Errorf("ecs: chunk mask lacks component %s", c.info.Name)))
	}
	return &col[row]
}

// Check reports whether chunk has a whole-value column for T; it reports
// false for a T stored as SoA fields or in a sparse set, even when the
// chunk's mask contains T.
func (c AccessibleComponent[T]) Check(chunk *Chunk) bool {
	_, ok := getColumn[T](chunk, c.info.ID)
	return ok
}
