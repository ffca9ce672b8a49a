package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"mediaportal/backend/internal/bulkedit"
)

func newFieldsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <reference-asset-id>",
		Short: "List the fields eligible for bulk editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensureService(cmd.Context()); err != nil {
				return err
			}
			resolved := ctx.bulk.Fields(cmd.Context(), ctx.tenant, args[0])
			return writeJSON(cmd, resolved)
		},
	}
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var operation string
	var fieldKey string
	var scalar string
	var values []string
	var collectionIDs []string

	previewCmd := &cobra.Command{
		Use:   "preview <asset-id>...",
		Short: "Preview a bulk mutation and mint its execution token",
		Long: `Preview a bulk mutation over the given target assets.

The preview lists, per asset, whether the mutation would change it, and
prints the signed token that must be passed to 'bulkctl execute' to apply
exactly the previewed mutation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensureService(cmd.Context()); err != nil {
				return err
			}

			value := bulkedit.NoValue()
			switch {
			case operation == string(bulkedit.OperationClear):
				// no payload
			case len(collectionIDs) > 0:
				value = bulkedit.IDsValue(collectionIDs)
			case len(values) > 0:
				value = bulkedit.ListValue(values)
			default:
				value = bulkedit.ScalarValue(scalar)
			}

			preview, token, err := ctx.bulk.Preview(cmd.Context(), ctx.tenant, operation, fieldKey, value, args)
			if err != nil {
				return err
			}

			if err := writeJSON(cmd, preview); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token: %s\n", token)
			if len(preview.Errored) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %d assets could not be evaluated; execution will be refused\n", len(preview.Errored))
			}
			return nil
		},
	}

	previewCmd.Flags().StringVar(&operation, "operation", "", "Operation: add, replace or clear")
	previewCmd.Flags().StringVar(&fieldKey, "field", "", "Field key to mutate ('collection' for membership)")
	previewCmd.Flags().StringVar(&scalar, "value", "", "Scalar value for single-valued fields")
	previewCmd.Flags().StringSliceVar(&values, "values", nil, "Values for multiselect fields")
	previewCmd.Flags().StringSliceVar(&collectionIDs, "collections", nil, "Collection ids for the collections field")
	previewCmd.MarkFlagRequired("operation")
	previewCmd.MarkFlagRequired("field")

	return previewCmd
}

func newExecuteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <token>",
		Short: "Execute a previously previewed bulk mutation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensureService(cmd.Context()); err != nil {
				return err
			}
			result, err := ctx.bulk.Execute(cmd.Context(), ctx.tenant, args[0])
			if err != nil {
				return err
			}
			if err := writeJSON(cmd, result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d succeeded, %d failed\n", result.Succeeded(), result.Failed())
			return nil
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
