package ecs

import "github.com/TheBitDrifter/mask"

// ComponentMask is the fixed-width bitmask over component type ids used to
// identify archetypes and evaluate queries.
// 256 bits comfortably covers DefaultMaxMaskWidth.
type ComponentMask = mask.Mask256

func maskForTypeID(id TypeID) ComponentMask {
	var m ComponentMask
	m.Mark(uint32(id))
	return m
}

func maskFor(components ...Component) ComponentMask {
	var m ComponentMask
	for _, c := range components {
		m.Mark(uint32(c.ID()))
	}
	return m
}
