// SPDX-License-Identifier: MPL-2.0

// Command dexd serves compiled dexfiles to the Dex browser extension.
package main

import cmd "github.com/dexd/dexd/cmd/dexd"

func main() {
	cmd.Execute()
}
