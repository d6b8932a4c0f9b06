/*Package segment partitions the coverage profiles of (sample, contig) groups
  into intervals of interest.

  Two analyses are supported.  Breakages are the maximal runs of zero depth of
  a contig, reported with 1-based inclusive base coordinates.  HVRs
  (hypervariable regions) are the maximal runs of sliding windows whose median
  depth is below Opts.HVRThreshold times the contig-wide median; they are
  reported in window-index coordinates and filtered by length and by distance
  from the contig ends.

  Each group moves through the states of State independently, and groups are
  processed concurrently.  A failure inside one group is recorded in its
  GroupResult and never affects the others; malformed input and bad options
  abort the whole run before any output is written.
*/
package segment
