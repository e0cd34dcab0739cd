// Package simulation implements the force-directed layout engine.
//
// An Engine owns a cooling temperature (alpha) and a set of named forces.
// Each tick decays alpha toward its target, lets every force adjust node
// velocities, then integrates positions with velocity damping. Nodes with
// a drag pin (FX/FY) are held in place.
//
// Available forces:
//
//   - LinkForce: spring along each link toward a rest distance
//   - ManyBody: pairwise charge, Barnes–Hut approximated
//   - Center: translates the mean position toward a point
//   - Collide: separates overlapping circles
//   - Anchor: pulls one node toward a fixed point
//
// The engine is single-threaded; callers serialise access (see service.Session).
package simulation
