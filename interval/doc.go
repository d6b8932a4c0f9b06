/*Package interval extracts maximal runs from per-base coverage arrays and
  from per-window boolean signals.  A run is reported as an Interval with
  inclusive endpoints; its length is always End - Start + 1, regardless of
  whether the coordinates are 1-based bases (ZeroRuns) or 0-based window
  indices (Islands).
  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
