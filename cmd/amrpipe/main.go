// Package main provides the amrpipe command-line tool.
package main

func main() {
	Execute()
}
