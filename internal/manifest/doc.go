// Package manifest parses HCL pipeline manifests: the files a pipeline
// builder reads to learn which modules to instantiate, from which namespace,
// with which configuration, and against which framework release the pipeline
// was written.
//
// A manifest looks like this:
//
//	framework_version = [22, 11, 0]
//
//	module "reader" {
//	  type      = "SourceModule"
//	  namespace = "unittest"
//	  config = {
//	    values = ["a", "b"]
//	  }
//	}
//
//	retire "SimpleModule" {
//	  namespace = "unittest"
//	  optional  = true
//	}
//
// Attribute values are kept as raw cty values. Type checking of namespaces,
// flags and versions is left to the binding layer so that a manifest and a
// programmatic caller get identical errors.
package manifest
