// Command cmdskema inspects declaration files and parses payloads against
// them.
package main

func main() {
	Execute()
}
