package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCallCmd(a *app) *cobra.Command {
	var argsJSON, kwargsJSON string
	cmd := &cobra.Command{
		Use:   "call <model> <method>",
		Short: "Run a model method and print the result as JSON",
		Example: `  odooctl call res.partner search_count --args '[[["is_company","=",true]]]'
  odooctl call res.partner read --args '[[7]]' --kwargs '{"fields":["name","email"]}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var callArgs []any
			if err := decodeJSON(argsJSON, &callArgs); err != nil {
				return fmt.Errorf("--args: %w", err)
			}
			var kwargs map[string]any
			if err := decodeJSON(kwargsJSON, &kwargs); err != nil {
				return fmt.Errorf("--kwargs: %w", err)
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			core, err := a.newCore(cfg)
			if err != nil {
				return err
			}
			defer core.Close()

			res, err := core.Execute(cmd.Context(), args[0], args[1], callArgs, kwargs)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "", "positional arguments as a JSON array")
	cmd.Flags().StringVar(&kwargsJSON, "kwargs", "", "keyword arguments as a JSON object")
	return cmd
}

// decodeJSON fills v from s. Whole numbers become int64 so ids are sent as
// XML-RPC ints rather than doubles.
func decodeJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewBufferString(s))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	norm := normalizeNumbers(raw)
	switch target := v.(type) {
	case *[]any:
		list, ok := norm.([]any)
		if !ok {
			return fmt.Errorf("expected a JSON array, got %T", norm)
		}
		*target = list
	case *map[string]any:
		m, ok := norm.(map[string]any)
		if !ok {
			return fmt.Errorf("expected a JSON object, got %T", norm)
		}
		*target = m
	default:
		return fmt.Errorf("unsupported target %T", v)
	}
	return nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, err := t.Float64()
		if err != nil || math.IsInf(f, 0) {
			return t.String()
		}
		return f
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	default:
		return v
	}
}

func printTable(cmd *cobra.Command, rows [][]string) error {
	return pterm.DefaultTable.WithHasHeader().WithData(rows).WithWriter(cmd.OutOrStdout()).Render()
}
