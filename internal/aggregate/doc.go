// SPDX-License-Identifier: MPL-2.0

// Package aggregate builds the dexd payload from a source tree.
//
// The tree is laid out as one directory per host category, each holding
// host-wide files and one directory per module:
//
//	<src>/
//	  global/setup.js              host-wide file, module key "global"
//	  blog/widget/widget.coffee    module "blog/widget"
//	  blog/widget/widget.scss
//	  blog/widget/info.yaml        optional sidecar metadata
//
// Build walks the tree, compiles CoffeeScript and Sass through the
// transform package, wraps every file with start/end markers, merges module
// metadata and returns a Config ready for JSON encoding. Nothing is cached:
// each call reads the filesystem again.
package aggregate
