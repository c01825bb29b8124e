// Package sortcmd wires internal/dumpsort into a standalone CLI surface:
// it reads a JSON-described object graph, orders it with dumpsort.Sort
// (or dumpsort.SortByTypeName for the canonical pre-sort alone), and
// writes the resulting order back out. It owns no catalog access and no
// SQL rendering — those are the out-of-scope collaborators dumpsort only
// consumes (spec §1) — it exists purely to give the sorter a runnable
// entry point outside of its test suite.
package sortcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pgschema/pgschema/internal/dumpsort"
	"github.com/pgschema/pgschema/internal/logger"
	"github.com/spf13/cobra"
)

var (
	inputPath     string
	outputPath    string
	canonicalOnly bool
	describe      bool
)

var SortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Order a dependency graph of database objects",
	Long: `Read a JSON-described set of database schema objects and their
dependency edges, and write them back out in a legal, dependency-safe
emission order.

With --canonical-only, only the type/name pre-sort runs (dependency
edges are ignored); otherwise the full canonical-sort-then-topological-
sort-with-loop-repair pipeline runs.`,
	RunE: runSort,
}

func init() {
	SortCmd.Flags().StringVar(&inputPath, "in", "-", "input file (JSON), - for stdin")
	SortCmd.Flags().StringVar(&outputPath, "out", "-", "output file, - for stdout")
	SortCmd.Flags().BoolVar(&canonicalOnly, "canonical-only", false, "run only the type/name pre-sort, ignoring dependency edges")
	SortCmd.Flags().BoolVar(&describe, "describe", false, "print one human-readable description line per object instead of JSON")
}

func runSort(cmd *cobra.Command, args []string) error {
	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	objs, cat, preID, postID, err := decode(in)
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Debug("loaded object graph", "count", len(objs), "preBoundaryId", preID, "postBoundaryId", postID)

	if canonicalOnly {
		dumpsort.SortByTypeName(objs, cat)
	} else {
		ctx := dumpsort.Context{
			Catalog:      cat,
			PreBoundary:  preID,
			PostBoundary: postID,
			Logger:       log,
		}
		if err := dumpsort.Sort(ctx, objs); err != nil {
			return fmt.Errorf("sort: %w", err)
		}
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return encode(out, objs)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func encode(w io.Writer, objs []*dumpsort.DumpableObject) error {
	if describe {
		for _, obj := range objs {
			if _, err := fmt.Fprintln(w, dumpsort.Describe(obj)); err != nil {
				return err
			}
		}
		return nil
	}

	type entry struct {
		DumpID dumpsort.DumpId `json:"dumpId"`
		Kind   string          `json:"kind"`
		Name   string          `json:"name"`
	}
	out := make([]entry, len(objs))
	for i, obj := range objs {
		out[i] = entry{DumpID: obj.DumpId, Kind: obj.Kind.String(), Name: obj.Name}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
