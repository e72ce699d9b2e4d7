package main

import "fmt"

func printUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  lox                          start a REPL, or run standard input when it is not a terminal")
	fmt.Fprintln(stderr, "  lox [run] <file.lox> [--tokens] [--ast] [--stats]")
	fmt.Fprintln(stderr, "  lox repl")
	fmt.Fprintln(stderr, "  lox test [path ...] [--pattern <glob>] [--parallel <n>]")
	fmt.Fprintln(stderr, "  lox tokens <file.lox>")
	fmt.Fprintln(stderr, "  lox ast <file.lox>")
	fmt.Fprintln(stderr, "  lox version")
}
