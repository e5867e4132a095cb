package model

import (
	"errors"

	"github.com/nextmv-io/sdk/mip"
	sdkmodel "github.com/nextmv-io/sdk/model"

	"collection-route-service/internal/instance"
)

// VehicleArc indexes the binary routing variable: vehicle drives the arc.
type VehicleArc struct {
	Vehicle string
	Arc     instance.Arc
}

// ID implements sdkmodel.Identifier for multimap indexing.
func (k VehicleArc) ID() string { return k.Vehicle + ":" + k.Arc.From + ">" + k.Arc.To }

// VehicleUse indexes the binary usage variable: vehicle drives any route.
type VehicleUse struct {
	Vehicle string
}

func (k VehicleUse) ID() string { return k.Vehicle }

// VehicleLoad indexes the continuous cumulative-load variable carried by
// a vehicle immediately after servicing a customer.
type VehicleLoad struct {
	Vehicle  string
	Customer string
}

func (k VehicleLoad) ID() string { return k.Vehicle + ":" + k.Customer }

// Formulation is the assembled mixed-integer model together with the
// variable indexes needed to read a solution back. It is handed to the
// solving engine as one atomic unit.
type Formulation struct {
	MIP  mip.Model
	Inst *instance.Instance

	Arcs  []VehicleArc
	Uses  []VehicleUse
	Loads []VehicleLoad

	X sdkmodel.MultiMap[mip.Bool, VehicleArc]
	Y sdkmodel.MultiMap[mip.Bool, VehicleUse]
	U sdkmodel.MultiMap[mip.Float, VehicleLoad]

	// Warm is the optional initial feasible point offered to the engine.
	Warm *WarmStart
}

// BuildFormulation translates an instance into decision variables, an
// objective and a constraint set. It does no solving.
//
// Arcs from a customer directly to the depot, and from the facility to
// anywhere but the depot, are excluded from the variable set altogether:
// a route must always close customer -> ... -> facility -> depot, with
// the facility visited exactly once immediately before the return.
// Omitting the variables keeps the model smaller than pinning them to
// zero, and it rules out multi-trip shapes like depot -> customer ->
// facility -> customer -> facility -> depot that route reconstruction
// cannot represent.
func BuildFormulation(inst *instance.Instance, warm *WarmStart) (*Formulation, error) {
	if inst == nil {
		return nil, errors.New("build formulation: instance is nil")
	}

	depot := inst.Depot.ID
	facility := inst.Facility.ID

	arcs := make([]instance.Arc, 0, len(inst.Cost))
	for _, i := range inst.Nodes {
		for _, j := range inst.Nodes {
			if i == j || !inst.HasArc(i, j) {
				continue
			}
			if inst.IsCustomer(i) && j == depot {
				continue
			}
			if i == facility && j != depot {
				continue
			}
			arcs = append(arcs, instance.Arc{From: i, To: j})
		}
	}

	f := &Formulation{
		MIP:   mip.NewModel(),
		Inst:  inst,
		Arcs:  make([]VehicleArc, 0, len(arcs)*len(inst.Vehicles)),
		Uses:  make([]VehicleUse, 0, len(inst.Vehicles)),
		Loads: make([]VehicleLoad, 0, len(inst.Customers)*len(inst.Vehicles)),
		Warm:  warm,
	}
	m := f.MIP

	for _, v := range inst.Vehicles {
		f.Uses = append(f.Uses, VehicleUse{Vehicle: v.ID})
		for _, a := range arcs {
			f.Arcs = append(f.Arcs, VehicleArc{Vehicle: v.ID, Arc: a})
		}
		for _, c := range inst.Customers {
			f.Loads = append(f.Loads, VehicleLoad{Vehicle: v.ID, Customer: c.ID})
		}
	}

	f.X = sdkmodel.NewMultiMap(
		func(...VehicleArc) mip.Bool {
			return m.NewBool()
		}, f.Arcs)
	f.Y = sdkmodel.NewMultiMap(
		func(...VehicleUse) mip.Bool {
			return m.NewBool()
		}, f.Uses)

	capacity := func(vehicle string) float64 { return float64(inst.Capacity[vehicle]) }
	f.U = sdkmodel.NewMultiMap(
		func(keys ...VehicleLoad) mip.Float {
			return m.NewFloat(0.0, capacity(keys[0].Vehicle))
		}, f.Loads)

	// Objective: selected-arc travel cost plus startup cost of every
	// used vehicle.
	m.Objective().SetMinimize()
	for _, k := range f.Arcs {
		m.Objective().NewTerm(float64(inst.Cost[k.Arc]), f.X.Get(k))
	}
	for _, u := range f.Uses {
		m.Objective().NewTerm(float64(inst.StartupCost[u.Vehicle]), f.Y.Get(u))
	}

	inbound := make(map[string][]instance.Arc, len(inst.Nodes))
	outbound := make(map[string][]instance.Arc, len(inst.Nodes))
	for _, a := range arcs {
		inbound[a.To] = append(inbound[a.To], a)
		outbound[a.From] = append(outbound[a.From], a)
	}

	// Each customer is entered exactly once and left exactly once,
	// summed over all vehicles.
	for _, c := range inst.Customers {
		enter := m.NewConstraint(mip.Equal, 1.0)
		for _, v := range inst.Vehicles {
			for _, a := range inbound[c.ID] {
				enter.NewTerm(1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
			}
		}

		leave := m.NewConstraint(mip.Equal, 1.0)
		for _, v := range inst.Vehicles {
			for _, a := range outbound[c.ID] {
				leave.NewTerm(1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
			}
		}
	}

	for _, v := range inst.Vehicles {
		use := f.Y.Get(VehicleUse{Vehicle: v.ID})

		// Depot degree equals the usage indicator: one departure and one
		// return iff the vehicle is used.
		depart := m.NewConstraint(mip.Equal, 0.0)
		for _, a := range outbound[depot] {
			depart.NewTerm(1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
		}
		depart.NewTerm(-1.0, use)

		arrive := m.NewConstraint(mip.Equal, 0.0)
		for _, a := range inbound[depot] {
			arrive.NewTerm(1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
		}
		arrive.NewTerm(-1.0, use)

		// Flow conservation at customers and at the facility.
		for _, n := range inst.Nodes {
			if n == depot {
				continue
			}
			flow := m.NewConstraint(mip.Equal, 0.0)
			for _, a := range inbound[n] {
				flow.NewTerm(1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
			}
			for _, a := range outbound[n] {
				flow.NewTerm(-1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
			}
		}

		// Serving any customer implies the vehicle is used.
		for _, c := range inst.Customers {
			serve := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			for _, a := range inbound[c.ID] {
				serve.NewTerm(1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
			}
			serve.NewTerm(-1.0, use)
		}

		// A used vehicle must pass the facility before returning.
		visit := m.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		for _, a := range inbound[facility] {
			visit.NewTerm(1.0, f.X.Get(VehicleArc{Vehicle: v.ID, Arc: a}))
		}
		visit.NewTerm(-1.0, use)

		f.loadConstraints(v.ID, inbound)
		f.shiftConstraint(v.ID)
	}

	return f, nil
}

// loadConstraints ties the cumulative-load variables to the selected
// arcs. The load-propagation inequalities double as sub-tour
// elimination: a customer cycle avoiding the depot cannot carry a
// strictly increasing load. The big-M is the vehicle's capacity, the
// tightest constant that keeps an unselected arc's inequality vacuous.
func (f *Formulation) loadConstraints(vehicle string, inbound map[string][]instance.Arc) {
	inst := f.Inst
	m := f.MIP
	capacity := float64(inst.Capacity[vehicle])

	for _, c := range inst.Customers {
		load := f.U.Get(VehicleLoad{Vehicle: vehicle, Customer: c.ID})
		demand := float64(inst.Demand[c.ID])

		// Zero unless visited; at least the own demand when visited.
		upper := m.NewConstraint(mip.LessThanOrEqual, 0.0)
		upper.NewTerm(1.0, load)
		lower := m.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		lower.NewTerm(1.0, load)
		for _, a := range inbound[c.ID] {
			x := f.X.Get(VehicleArc{Vehicle: vehicle, Arc: a})
			upper.NewTerm(-capacity, x)
			lower.NewTerm(-demand, x)
		}

		for _, a := range inbound[c.ID] {
			x := f.X.Get(VehicleArc{Vehicle: vehicle, Arc: a})

			if a.From == inst.Depot.ID {
				// Entering from the depot starts the load at the
				// customer's own demand. The facility has no outbound
				// arcs to customers, so the depot is the only reset.
				reset := m.NewConstraint(mip.LessThanOrEqual, demand+capacity)
				reset.NewTerm(1.0, load)
				reset.NewTerm(capacity, x)
				continue
			}

			// u[j] >= u[i] + demand[j] - capacity*(1 - x[i,j]).
			prev := f.U.Get(VehicleLoad{Vehicle: vehicle, Customer: a.From})
			prop := m.NewConstraint(mip.GreaterThanOrEqual, demand-capacity)
			prop.NewTerm(1.0, load)
			prop.NewTerm(-1.0, prev)
			prop.NewTerm(-capacity, x)
		}
	}
}

// shiftConstraint bounds the route duration: the travel time of every
// selected arc plus the service time at its tail node must fit in the
// vehicle's shift. Each node is entered at most once, so the sum equals
// the realized route duration.
func (f *Formulation) shiftConstraint(vehicle string) {
	inst := f.Inst
	shift := f.MIP.NewConstraint(mip.LessThanOrEqual, float64(inst.MaxShift[vehicle]))
	for _, k := range f.Arcs {
		if k.Vehicle != vehicle {
			continue
		}
		weight := float64(inst.Time[k.Arc] + inst.Service[k.Arc.From])
		shift.NewTerm(weight, f.X.Get(k))
	}
}
