// Command k8dnz is the CLI dispatcher over pkg/k8dnz: encode, decode,
// ark-inspect, ark-key (encode, decode), analyze, sim, timemap
// (fit-xor[-chunked], gen-law, reconstruct, bf-lanes), and orbexp
// (blockscan, bandsplit). It is a thin
// layer — every operation's logic lives in pkg/k8dnz or internal/*; this
// package only parses flags, loads/writes files, and maps errors to exit
// codes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/pkg/logging"
)

const version = "0.1.0"

var (
	rootCmd      *cobra.Command
	versionFlag  bool
	logLevelFlag string
	jsonLogFlag  bool
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "k8dnz",
		Short: "Program+patch codec: cadence generator plus timemap/residual reconstruction",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger("k8dnz", logLevelFlag, os.Stderr, jsonLogFlag || logging.JSONLogEnabled())
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: trace, debug, info, warn, error (default: $K8DNZ_LOG_LEVEL or warn)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogFlag, "json-log", false, "Emit structured JSON logs instead of bold-prefixed human-readable lines")

	rootCmd.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newArkInspectCmd(),
		newArkKeyCmd(),
		newAnalyzeCmd(),
		newSimCmd(),
		newTimemapCmd(),
		newOrbexpCmd(),
	)
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("k8dnz %s\n", version)
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
