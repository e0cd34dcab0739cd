// Package interaction turns pointer and prompt input into graph mutations.
//
// Drags pin the node and keep the simulation warm while at least one drag is
// active. Clicking a node spawns a linked child; AddImportant adds a node
// linked to the hub. Both ask for a label first and do nothing when the
// prompt is cancelled. Hover only toggles label visibility.
package interaction
