package client

import (
	"fmt"

	"github.com/infiotinc/lmsgql/client/transport"
)

// Descriptor is the static definition of one operation.
// Descriptors are created once at init and must not be modified.
type Descriptor struct {
	Name     string
	Kind     transport.Operation
	Document string
}

func (d *Descriptor) String() string {
	return string(d.Kind) + " " + d.Name
}

// KindError is returned when a descriptor is run through a call that does not support its kind
type KindError struct {
	Descriptor *Descriptor
}

func (e *KindError) Error() string {
	return fmt.Sprintf("operation %s: unsupported kind %q", e.Descriptor.Name, e.Descriptor.Kind)
}

// Catalog maps operation names to descriptors
type Catalog struct {
	byName map[string]*Descriptor
	order  []*Descriptor
}

func NewCatalog(ds ...*Descriptor) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]*Descriptor, len(ds)),
		order:  make([]*Descriptor, 0, len(ds)),
	}

	for _, d := range ds {
		if d == nil || d.Name == "" {
			return nil, fmt.Errorf("catalog: descriptor without a name")
		}

		switch d.Kind {
		case transport.Query, transport.Mutation, transport.Subscription:
		default:
			return nil, &KindError{Descriptor: d}
		}

		if _, ok := c.byName[d.Name]; ok {
			return nil, fmt.Errorf("catalog: duplicate operation %q", d.Name)
		}

		c.byName[d.Name] = d
		c.order = append(c.order, d)
	}

	return c, nil
}

func MustCatalog(ds ...*Descriptor) *Catalog {
	c, err := NewCatalog(ds...)
	if err != nil {
		panic(err)
	}

	return c
}

func (c *Catalog) Lookup(name string) (*Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// Descriptors returns the descriptors in registration order
func (c *Catalog) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), c.order...)
}

func (c *Catalog) Len() int {
	return len(c.order)
}
