// Package registry provides the central "glue" for the module system.
//
// The Registry maps (name, namespace) keys to factories that build modules.
// Component authors register factories while the process starts up; pipeline
// builders later check framework version compatibility and instantiate
// modules by qualified name. Administrative code may retire factories again.
//
// The "default" namespace is always present. Other namespaces come into
// existence with their first registration and are kept even after every
// module in them has been removed.
//
// A Registry is an ordinary value created with New and handed to whoever
// needs it; there is no package-level instance.
package registry
