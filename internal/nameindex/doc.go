// Package nameindex builds the read-only lookup structures the candidate
// generator searches: names by normalized root spelling, genus membership
// (every species ever placed in a genus, by original or current assignment),
// and sister-genus adjacency within a tribe.
//
// The index is an arena of Name records addressed by their database
// identifiers, with derived adjacency maps computed once at batch start.
// Nothing mutates it after Build returns, so any number of workers may share
// one index without synchronization. Construct a fresh index per run; the
// corpus snapshot it holds is what makes re-runs deterministic.
package nameindex
