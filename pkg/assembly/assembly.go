// Package assembly ties a plate spec to the parts built for it. The well
// grid is computed once and every part is built from that single grid.
package assembly

import (
	"fmt"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/parts"
	"github.com/chazu/platestamper/pkg/plate"
)

// Assembly owns a plate spec, its well grid and one geometry tree per part.
// It is immutable after New returns.
type Assembly struct {
	spec  plate.Spec
	grid  plate.Grid
	names []string
	parts map[string]*geom.Node
}

// New validates s, computes the well grid and builds every part. No
// partially built assembly is ever returned.
func New(s plate.Spec) (*Assembly, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g, err := plate.Compute(s)
	if err != nil {
		return nil, err
	}

	a := &Assembly{
		spec:  s,
		grid:  g,
		parts: make(map[string]*geom.Node),
	}
	for _, p := range parts.All() {
		root, err := p.Build(s, g)
		if err != nil {
			return nil, err
		}
		a.names = append(a.names, p.Name)
		a.parts[p.Name] = root
	}
	return a, nil
}

// Spec returns the plate spec.
func (a *Assembly) Spec() plate.Spec { return a.spec }

// Grid returns the shared well grid.
func (a *Assembly) Grid() plate.Grid { return a.grid }

// Names returns the part names in build order.
func (a *Assembly) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Part returns the geometry of the named part.
func (a *Assembly) Part(name string) (*geom.Node, error) {
	n, ok := a.parts[name]
	if !ok {
		return nil, fmt.Errorf("assembly: no part named %q (have %v)", name, a.names)
	}
	return n, nil
}

// Stamp returns the stamp geometry.
func (a *Assembly) Stamp() *geom.Node { return a.parts[parts.StampName] }

// Frame returns the centring frame geometry.
func (a *Assembly) Frame() *geom.Node { return a.parts[parts.FrameName] }

// Mould returns the mould geometry.
func (a *Assembly) Mould() *geom.Node { return a.parts[parts.MouldName] }

// Cutter returns the cutter geometry.
func (a *Assembly) Cutter() *geom.Node { return a.parts[parts.CutterName] }

// Plate returns the reference plate geometry.
func (a *Assembly) Plate() *geom.Node { return a.parts[parts.PlateName] }
