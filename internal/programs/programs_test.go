package programs_test

import (
	"slices"
	"testing"

	"graphir/internal/ir"
	"graphir/internal/programs"
	"graphir/internal/trace"
	"graphir/internal/types"
)

func TestRegistry(t *testing.T) {
	all := programs.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	want := []string{"clamp", "classify", "countdown", "even", "fib", "gcd"}
	if !slices.Equal(names, want) {
		t.Fatalf("All() = %v, want %v", names, want)
	}
	if _, ok := programs.Lookup("fib"); !ok {
		t.Fatal("Lookup(fib) failed")
	}
	if _, ok := programs.Lookup("missing"); ok {
		t.Fatal("Lookup(missing) succeeded")
	}
}

func TestProgramsBuildAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		params []types.Type
		result types.Type
	}{
		{"clamp", []types.Type{types.I32, types.I32, types.I32}, types.I32},
		{"classify", []types.Type{types.U32}, types.U32},
		{"countdown", []types.Type{types.U32}, types.Unit},
		{"even", []types.Type{types.U32}, types.Bool},
		{"fib", []types.Type{types.U32}, types.U32},
		{"gcd", []types.Type{types.U64, types.U64}, types.U64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := programs.Lookup(tt.name)
			ring := trace.NewRingTracer(256, trace.LevelDebug)
			g, fn, err := p.Build(ir.WithTracer(ring))
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if err := ir.Validate(g); err != nil {
				t.Fatalf("validate: %v", err)
			}
			if fn.Name != tt.name {
				t.Fatalf("entry = %s", fn)
			}
			if got := programs.ParamTypes(g, fn); !slices.Equal(got, tt.params) {
				t.Fatalf("params = %v, want %v", got, tt.params)
			}
			if fn.Result != tt.result {
				t.Fatalf("result = %s, want %s", fn.Result, tt.result)
			}
			if len(ring.Snapshot()) == 0 {
				t.Fatal("no trace events recorded while building")
			}
		})
	}
}

func TestBuildsAreIndependent(t *testing.T) {
	g1, _, err := programs.Fib()
	if err != nil {
		t.Fatal(err)
	}
	g2, _, err := programs.Fib()
	if err != nil {
		t.Fatal(err)
	}
	if g1 == g2 || len(g1.Nodes) != len(g2.Nodes) {
		t.Fatalf("expected two equal-sized distinct graphs, got %d and %d nodes", len(g1.Nodes), len(g2.Nodes))
	}
}
