// Package fanout turns a list of entity names into per-entity resource
// specifications and one shared routing resource.
//
// The pipeline is:
//
//	raw names -> naming.Sanitize -> ports.Allocator -> BuildEntitySpecs (per name)
//	          -> BuildRoutingSpec (all paths, input order)
//
// Run is a pure function of its inputs. The run timestamp is passed in
// rather than read from a clock so identical inputs give identical output.
package fanout
