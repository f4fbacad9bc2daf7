package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	analyzeIn  string
	analyzeTop int
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report byte-frequency statistics for a target file",
		Run:   runAnalyze,
	}
	cmd.Flags().StringVar(&analyzeIn, "in", "", "Input file (required)")
	cmd.Flags().IntVar(&analyzeTop, "top", 8, "Number of most frequent byte values to report")
	cmd.MarkFlagRequired("in")
	return cmd
}

type byteCount struct {
	value byte
	count int
}

func runAnalyze(cmd *cobra.Command, args []string) {
	data, err := readFile(analyzeIn)
	if err != nil {
		fail(analyzeIn, err)
	}

	var hist [256]int
	for _, b := range data {
		hist[b]++
	}

	counts := make([]byteCount, 0, 256)
	for v, c := range hist {
		if c > 0 {
			counts = append(counts, byteCount{value: byte(v), count: c})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].value < counts[j].value
	})

	fmt.Printf("bytes:        %d\n", len(data))
	fmt.Printf("distinct:     %d\n", len(counts))
	top := analyzeTop
	if top > len(counts) {
		top = len(counts)
	}
	for i := 0; i < top; i++ {
		c := counts[i]
		pct := float64(c.count) * 100 / float64(len(data))
		fmt.Printf("  0x%02x  %8d  %6.2f%%\n", c.value, c.count, pct)
	}
}
