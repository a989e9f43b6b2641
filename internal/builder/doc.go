/*
Package builder turns a parsed pipeline manifest into module instances
obtained from a registry. It is the registry's consumer on the pipeline side:
it decides nothing about how the modules later move data.

Building is a multi-phase process:

 1. Version check: when the manifest declares framework_version, it must be
    compatible with the registry's release.

 2. Retirement plan: every `retire` block is type-checked through the binding
    layer, so wrong-typed arguments fail exactly as they would for a
    programmatic caller. A non-optional retire of an absent module fails here.

 3. Validation: every `module` block must name an existing namespace and a
    module that is registered and not retired by the same manifest. All
    problems are collected and reported together.

 4. Instantiation: modules are built in declaration order. The first factory
    error stops the build.

 5. Retirement: the planned retirements are applied.

The registry is only changed in the last phase, so a rejected manifest
leaves it as it was.

The result is a *Pipeline that owns its modules; the registry keeps no
reference to them.
*/
package builder
