/*Package interval implements integer sets stored as unions of disjoint
  ranges, the representation behind genomic run lists such as
  "1-5,9,12,15-16,20".
  A Set keeps its ranges as a flat, strictly increasing sequence of
  half-open endpoints, so overlapping and touching ranges are always merged
  and binary search over the endpoints answers membership queries.
  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
