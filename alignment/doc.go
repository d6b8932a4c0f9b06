// Package alignment reads the tabular inputs of coverage segmentation:
// pairwise alignment tables (minimap2 PAF layout) and per-base depth tables
// (samtools depth layout, with a leading sample column).  Both are parsed
// eagerly; any malformed row fails the whole read with an errors.Invalid
// error naming the path and line.
//
// Records are grouped by key before any coverage is computed, so results never
// depend on input row order.
package alignment
