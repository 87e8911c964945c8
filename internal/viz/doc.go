// Package viz renders stopping power results for the terminal.
//
// Styles are built with Lip Gloss and curves are drawn with asciigraph:
//
//   - [RenderSamples]: sample table of a computed curve
//   - [RenderSummary]: bordered summary panel
//   - [RenderModels]: correction model listing
//   - [RenderComparison]: spread between two models
//   - [PlotCurve]: dE/dx against grid index, optionally on a log scale
package viz
