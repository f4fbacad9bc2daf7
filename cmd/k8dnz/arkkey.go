package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Y3LLOWVESTS/K8DNZ/internal/atomicfile"
	"github.com/Y3LLOWVESTS/K8DNZ/internal/recipe"
)

var (
	arkKeyRecipePath string
	arkKeyOutPath    string
	arkKeyString     string
)

func newArkKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ark-key",
		Short: "Encode/decode a recipe as a short, human-typable ARK1S string",
	}
	cmd.AddCommand(newArkKeyEncodeCmd(), newArkKeyDecodeCmd())
	return cmd
}

func newArkKeyEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Render a K8R recipe blob as an ARK1S string on stdout",
		Run:   runArkKeyEncode,
	}
	cmd.Flags().StringVar(&arkKeyRecipePath, "recipe", "", "Path to a K8R recipe blob (required)")
	cmd.MarkFlagRequired("recipe")
	return cmd
}

func runArkKeyEncode(cmd *cobra.Command, args []string) {
	rec, err := loadRecipe(arkKeyRecipePath)
	if err != nil {
		fail(arkKeyRecipePath, err)
	}
	fmt.Println(recipe.EncodeArk1S(rec))
}

func newArkKeyDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Parse an ARK1S string and write it out as a K8R recipe blob",
		Run:   runArkKeyDecode,
	}
	cmd.Flags().StringVar(&arkKeyString, "key", "", "ARK1S string (required)")
	cmd.Flags().StringVar(&arkKeyOutPath, "out", "", "Output K8R recipe path (required)")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runArkKeyDecode(cmd *cobra.Command, args []string) {
	rec, err := recipe.DecodeArk1S(arkKeyString)
	if err != nil {
		fail("--key", err)
	}
	if err := atomicfile.Write(arkKeyOutPath, recipe.EncodeK8R(rec, nil), 0o644); err != nil {
		fail(arkKeyOutPath, err)
	}
	logger.Info("ark-key decoded", "recipe_id", rec.RecipeID, "out", arkKeyOutPath)
}
