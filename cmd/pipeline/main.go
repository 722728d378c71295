// Command pipeline is the CLI driver for the CLMM research pipeline: it
// wires configuration, the registry, QualityKV, the scheduler, and the
// orchestrator together, and exposes them as four thin subcommands (episode, campaign, scheduler,
// inspect).
//
// Flag parsing itself carries no business logic (every behavior lives in
// the packages under pkg/ and is unit-testable without this binary) — this
// package exists only to assemble and invoke them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
