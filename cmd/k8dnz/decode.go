package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/atomicfile"
	"github.com/Y3LLOWVESTS/K8DNZ/pkg/k8dnz"
)

var (
	decodeIn       string
	decodeOut      string
	decodeMaxTicks uint64
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Reconstruct the original target bytes from a .ark container",
		Run:   runDecode,
	}
	cmd.Flags().StringVar(&decodeIn, "in", "", "Input .ark path (required)")
	cmd.Flags().StringVar(&decodeOut, "out", "", "Output target path (required)")
	cmd.Flags().Uint64Var(&decodeMaxTicks, "max-ticks", 0, "Override the embedded tick budget if larger")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) {
	raw, err := readFile(decodeIn)
	if err != nil {
		fail(decodeIn, err)
	}

	var out bytes.Buffer
	if err := k8dnz.Decode(bytes.NewReader(raw), &out, decodeMaxTicks); err != nil {
		fail(decodeIn, err)
	}

	if err := atomicfile.Write(decodeOut, out.Bytes(), 0o644); err != nil {
		fail(decodeOut, err)
	}
	logger.Info("decoded", "in", decodeIn, "out", decodeOut, "bytes", out.Len())
}
