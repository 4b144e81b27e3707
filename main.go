// Command seisprep is the CLI surface over the seismic-trace
// preprocessing pipeline: it conditions observed and synthetic gathers,
// writes residual vectors and adjoint-source traces for gradient
// computation, and manages the optional run-summary database.
package main

import (
	"fmt"
	"os"

	"github.com/halfspace-data/seisprep/internal/db"
	"github.com/halfspace-data/seisprep/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "prepare":
		runPrepare(args)

	case "apply-hess":
		runApplyHess(args)

	case "init-adj":
		runInitAdj(args)

	case "runs":
		runListRuns(args)

	case "migrate":
		db.RunMigrateCommand(args, defaultDBPath)

	case "version":
		fmt.Printf("seisprep %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println(`Usage: seisprep <command> [flags]

Commands:
  prepare     Condition traces, write residuals and adjoint sources
  apply-hess  Prepare adjoint sources for a Hessian-vector application
  init-adj    Write an all-zero adjoint gather sized from the observed data
  runs        List recorded run summaries
  migrate     Manage the run database schema (up/down/status/force)
  version     Print build information
  help        Show this help

Run 'seisprep <command> -h' for command flags.`)
}
