package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/ambient/pkg/ambient"
	"github.com/dmitrymomot/ambient/pkg/value"
)

var (
	// ErrInvalidSnapshot reports a snapshot file that is not a map of maps.
	ErrInvalidSnapshot = errors.New("invalid snapshot file")
	// ErrUsage reports a flag combination eval cannot run.
	ErrUsage = errors.New("invalid arguments")
)

type evalFlags struct {
	snapshot  string
	source    string
	raw       bool
	sanitized bool
	def       string
}

func newEvalCmd() *cobra.Command {
	f := &evalFlags{}

	cmd := &cobra.Command{
		Use:   "eval --snapshot FILE [key...]",
		Short: "Look values up in a snapshot file",
		Long: `Load a snapshot whose top-level keys are source names (GET, POST, REQUEST,
SERVER, ENV or any custom name) and print the sanitized lookup of every key
as one JSON document per line. Nested keys are written with dots: bork.word.

Without --source the lookup searches REQUEST, then POST, then GET. When the
file has no REQUEST section it is built from GET overlaid with POST.

With --raw or --sanitized no keys are accepted and the whole source named by
--source is printed.`,
		Example: `  ambient eval --snapshot request.yaml bork bork.word
  ambient eval --snapshot request.yaml --source server REQUEST_METHOD
  ambient eval --snapshot request.yaml --source cookie --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, f, args)
		},
	}

	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "Path to a YAML or JSON snapshot file")
	cmd.Flags().StringVar(&f.source, "source", "", "Restrict the lookup to one source")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Print the whole source as stored")
	cmd.Flags().BoolVar(&f.sanitized, "sanitized", false, "Print the whole source sanitized")
	cmd.Flags().StringVar(&f.def, "default", "", "Value printed when a key is missing (default null)")
	_ = cmd.MarkFlagRequired("snapshot")
	cmd.MarkFlagsMutuallyExclusive("raw", "sanitized")

	return cmd
}

func runEval(cmd *cobra.Command, f *evalFlags, args []string) error {
	snap, err := loadSnapshot(f.snapshot)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())

	if f.raw || f.sanitized {
		if f.source == "" {
			return fmt.Errorf("%w: --raw and --sanitized need --source", ErrUsage)
		}
		if len(args) > 0 {
			return fmt.Errorf("%w: --raw and --sanitized take no keys", ErrUsage)
		}
		if f.raw {
			return enc.Encode(snap.Raw(f.source))
		}
		return enc.Encode(snap.Sanitized(f.source))
	}

	if len(args) == 0 {
		return fmt.Errorf("%w: at least one key is required", ErrUsage)
	}

	def := value.Null()
	if cmd.Flags().Changed("default") {
		def = value.String(f.def)
	}

	for _, arg := range args {
		if err := enc.Encode(lookup(snap, f.source, parseKey(arg), def)); err != nil {
			return err
		}
	}
	return nil
}

// lookup dispatches to the accessor for source. An empty source means the
// REQUEST, POST, GET search; any other source is searched on its own.
func lookup(snap *ambient.Snapshot, source string, key ambient.Key, def value.Value) value.Value {
	switch ambient.ResolveName(source) {
	case "":
		return snap.Var(key, def)
	case ambient.Get:
		return snap.QueryVar(key, def)
	case ambient.Post:
		return snap.FormVar(key, def)
	case ambient.Server:
		return snap.ServerVar(key, def)
	default:
		return snap.SourceVar(source, key, def)
	}
}

// parseKey splits a dotted key into path segments.
func parseKey(s string) ambient.Key {
	if s == "" {
		return nil
	}
	return ambient.Path(strings.Split(s, ".")...)
}

func loadSnapshot(path string) (*ambient.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var file map[string]value.Map
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}

	return snapshotFromFile(file), nil
}

// snapshotFromFile registers every section as a source. Names are applied in
// sorted order so "get" and "GET" in one file resolve the same way each run.
func snapshotFromFile(file map[string]value.Map) *ambient.Snapshot {
	names := slices.Sorted(maps.Keys(file))

	byName := make(map[ambient.Source]value.Map, len(file))
	opts := make([]ambient.Option, 0, len(names)+1)
	for _, name := range names {
		byName[ambient.ResolveName(name)] = file[name]
		opts = append(opts, ambient.WithSource(name, file[name]))
	}

	if _, ok := byName[ambient.Request]; !ok {
		request := value.Map{}
		maps.Copy(request, byName[ambient.Get])
		maps.Copy(request, byName[ambient.Post])
		opts = append(opts, ambient.WithRequest(request))
	}

	return ambient.New(opts...)
}
