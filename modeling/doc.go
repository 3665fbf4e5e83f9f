// Package modeling keeps the interface of a multi-refinement container and
// all of its refinements structurally identical.
//
// A MultiComposite owns an entity graph (an Arena by default). The container
// itself and each attached Refinement are entities in that graph, addressed
// by EntityID. Ports and Relations are also addressed by index, so no entity
// holds a pointer back to its owner.
//
// Adding a port on either side is a single traversal inside the graph's
// exclusive scope. The container is visited first, then every refinement
// exactly once. All ports that share a name are linked through one Relation
// named after the port with a "Relation" suffix:
//
//	c := modeling.NewMultiComposite("C")
//	r1, _ := c.AddRefinement("R1")
//	r2, _ := c.AddRefinement("R2")
//
//	c.AddPort("x", modeling.Input)   // C.x, R1.x, R2.x linked by xRelation
//	r1.AddPort("y", modeling.Output) // C.y, R1.y, R2.y linked by yRelation
//
// Hooks registered on the container observe every port creation, link and
// flag change after the edit has been committed.
package modeling
