// Command tally is a tally counter with a printed tape and a daily log.
package main

import "github.com/mesh-intelligence/tally/internal/cli"

func main() {
	cli.Execute()
}
