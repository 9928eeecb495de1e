package main

import (
	"fmt"
	"os"
)

// The harness is invoked with a named operation, not a mode flag:
//
//	testharness start-server   -repo PATH [options]
//	testharness await-ready    -path PATH [options]
//	testharness configure-repo -repo PATH -role ROLE [options]
//	testharness blobimport     -src PATH -data PATH [options] [-- extra args]
//	testharness setup          -manifest FILE [options]
func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 {
		printUsage(os.Stderr)
		return 2
	}

	switch args[1] {
	case "start-server":
		return cmdStartServer(args[2:])
	case "await-ready":
		return cmdAwaitReady(args[2:])
	case "configure-repo":
		return cmdConfigureRepo(args[2:])
	case "blobimport":
		return cmdBlobimport(args[2:])
	case "setup":
		return cmdSetup(args[2:])
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown operation %q\n\n", args[1])
		printUsage(os.Stderr)
		return 2
	}
}

func printUsage(dest *os.File) {
	fmt.Fprintln(dest, "usage: testharness <operation> [options]")
	fmt.Fprintln(dest)
	fmt.Fprintln(dest, "operations:")
	fmt.Fprintln(dest, "  start-server     launch the backend server for a repository and wait until ready")
	fmt.Fprintln(dest, "  await-ready      wait for a readiness artifact to appear")
	fmt.Fprintln(dest, "  configure-repo   append a role-specific configuration block to a repository")
	fmt.Fprintln(dest, "  blobimport       import a legacy repository into the new storage format")
	fmt.Fprintln(dest, "  setup            configure every repository listed in a manifest")
	fmt.Fprintln(dest)
	fmt.Fprintln(dest, "run 'testharness <operation> -h' for the options of one operation")
}
