// Package modules holds the built-in example modules. They are registered
// under a dedicated namespace so that they never shadow user modules in the
// default namespace.
package modules

// Namespace is where every built-in example module is registered.
const Namespace = "unittest"
