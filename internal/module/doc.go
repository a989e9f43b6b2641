// Package module defines what a registry factory produces: a named module
// instance carrying its own copy of the configuration it was built with.
//
// Configuration is free-form, string-keyed cty data. The registry never
// inspects it; each factory reads the keys it needs with the Config helpers
// and reports problems as a *ConfigError.
package module
