// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the operation that failed, the path or address
// involved, and remediation hints. The Issue catalog holds longer markdown
// guidance for the failures that stop the daemon, rendered with glamour.
package issue
