package sim

import "log"

// A Named object has a name that is unique within a simulation.
type Named interface {
	Name() string
}

// A Component is a named, hookable event handler.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides the name and hook support of a Component.
type ComponentBase struct {
	HookableBase
	name string
}

// NewComponentBase creates a ComponentBase. The name must not be empty.
func NewComponentBase(name string) *ComponentBase {
	if name == "" {
		log.Panic("component name must not be empty")
	}

	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
