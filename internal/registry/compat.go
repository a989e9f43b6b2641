package registry

import "github.com/specialistvlad/modulegrid/internal/version"

// ReleaseVersion returns the framework release this registry was built with.
func (r *Registry) ReleaseVersion() version.Version {
	return r.release
}

// IsVersionCompatible reports whether candidate, given as (major, minor,
// patch), can run against this registry's release. It needs exactly three
// components, the same major and minor, and a patch no newer than the
// release's.
func (r *Registry) IsVersionCompatible(candidate []uint) bool {
	return r.release.AcceptsComponents(candidate)
}
