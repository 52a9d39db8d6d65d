// turtle-toolkit is the assembler and cycle-accurate simulator for the
// Turtle CPU, a small 16-bit TTL-style processor with separate
// instruction and data memories.
package main

import "github.com/tomdriley/turtle-toolkit/cmd"

func main() {
	cmd.Execute()
}
