// SPDX-License-Identifier: MPL-2.0

package main

import cmd "cycenv-cli/cmd/cycenv"

func main() {
	cmd.Execute()
}
