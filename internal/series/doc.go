// Package series reinterprets station timeseries and vertical profile
// records as labeled, dimensioned variables.
//
// # Record Conventions
//
// GEM model "series" output stores per-station data in two layouts that
// share the same type tag but reuse the header fields differently:
//
// Station timeseries (typvar 'T', grtyp 'Y' or 'T'):
//
//	ni enumerates horizontal station points, like the usual Y grid.
//	Matching '^^' and '>>' descriptor records carry the coordinates.
//
// Vertical profiles (typvar 'T', grtyp '+'):
//
//	ni and nj change meaning entirely: ni is the number of vertical levels
//	and nj the number of forecast times. The horizontal points are split
//	one station per record, numbered by ip3. ig1/ig2 are zero in observed
//	files; ig3/ig4 carry some kind of horizontal coordinate info. None of
//	the four are grid identifiers here, so classification zeroes them, and
//	ip1 carries no real vertical level either.
//
// # Auxiliary Records
//
// Four specially named records describe the axes instead of the headers:
//
//	STNS  station names as a packed character array
//	HH    validity hour per forecast step (lead time = hour - origin hour)
//	SV    momentum-level vertical coordinate
//	SH    thermodynamic-level vertical coordinate
//
// SH/SV sometimes carry one extra bottom level (an rpnphy artifact); the
// missing-bottom-level option trims it.
//
// STNS characters are sometimes stored with every code offset by 128. The
// cause is not understood; the decoder subtracts the offset whenever the
// first code is >= 128. Test files exist for both encodings, so the
// heuristic is kept exactly as observed rather than replaced with a rule
// we cannot verify.
//
// # Error Policy
//
// Nothing in this package is fatal. A missing auxiliary record omits its
// axis; a length mismatch degrades to a generic unlabeled axis; both are
// logged as warnings naming the affected variable. Generic level
// dimensions are cached by length and shared, which can silently merge
// physically distinct level sets that happen to have the same count. The
// records carry no metadata that would let the two cases be told apart.
package series
