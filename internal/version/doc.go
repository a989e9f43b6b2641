// Package version defines the three-component release identifier used to
// decide whether a module or a pipeline manifest was built against a
// compatible framework release.
//
// A candidate is compatible with a release when the major and minor
// components are equal and the candidate's patch is not newer than the
// release's patch. Two-component or one-component identifiers never match.
package version
