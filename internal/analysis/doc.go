// Package analysis summarises and compares stopping power curves.
//
//   - [Summarize]: extrema, averages and the Bragg-peak energy of a curve
//   - [Samples]: rows at selected energies for report tables
//   - [Compare]: per-energy relative spread between two models
//
// # Model Spread
//
// Two parametrizations evaluated on the same grid can be compared directly:
//
//	cmp, _ := analysis.Compare(icru73Points, icru90Points)
//	fmt.Printf("max spread %.2f%% at %.1f MeV\n", 100*cmp.MaxRelDiff, cmp.MaxAt)
package analysis
