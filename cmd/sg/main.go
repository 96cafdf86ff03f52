// Command sg is the specgate CLI: risk-tiered quality gates for
// agent-authored code changes.
package main

// version is stamped at build time via -ldflags.
var version = "0.4.0"

func main() {
	Execute()
}
