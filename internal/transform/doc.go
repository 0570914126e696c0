// SPDX-License-Identifier: MPL-2.0

// Package transform compiles CoffeeScript and Sass sources by running the
// external compilers found on PATH.
//
// A Transformer turns a source file into compiled text. A compiler that is
// not installed is reported as *NotInstalledError rather than as text in the
// output, so callers decide how to present it; its Placeholder is the
// comment the daemon serves in place of the compiled file.
package transform
