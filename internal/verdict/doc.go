// Package verdict defines the structured per-page analysis result and the
// validation that guarantees its enum invariants.
//
// Oracle responses are best-effort text: Parse repairs unrecognized enum
// values to cautious defaults instead of failing the run, while text that is
// not JSON at all surfaces as a ResponseParseError. Status resolution and
// multi-page aggregation follow the severity lattice
// fail > warning > pass > none.
package verdict
