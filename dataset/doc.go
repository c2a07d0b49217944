// Package dataset loads the reference data the optimizer runs against:
// the pairwise sea-distance table and the directory of countries with their
// ISO 3166 alpha-3 codes.
//
// Both files are comma-separated with a single header row:
//
//	distances: from,to,distance   (codes, non-negative number)
//	countries: name,code          (display name, alpha-3 code)
package dataset
