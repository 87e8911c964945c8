// Package stopping computes charged-particle stopping power with the
// Bethe-Bloch formula and pluggable empirical corrections.
//
// The package is organised around four pieces:
//
//   - [Grid]: variable-resolution kinetic-energy sample points
//   - [Particle] and [Material]: immutable physical descriptors
//   - [CorrectionModel]: energy-band correction tables selected by name
//     through a [Registry]
//   - [Engine]: kinematics, Bethe-Bloch evaluation and batch evaluation
//
// # Example
//
//	eng, _ := stopping.NewWithModel(stopping.Proton, stopping.Water, "FTFP_BERT")
//	energies, _ := stopping.ReferenceGrid().Generate()
//	points, _ := eng.ComputeBatch(energies)
//	fmt.Println(stopping.FormatOutput(points))
//
// # Units
//
// Energies are in MeV, linear stopping power in MeV/cm and mass stopping
// power in MeV cm^2/g. Mean excitation energies are given in eV.
//
// # Thread Safety
//
// Every value in this package is immutable after construction. An [Engine]
// may be shared freely between goroutines.
package stopping
