package eval_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"graphir/internal/eval"
	"graphir/internal/ir"
	"graphir/internal/programs"
	"graphir/internal/types"
)

func u32(n uint64) ir.Const { return ir.UintConst(types.U32, n) }

func i32(n int64) ir.Const { return ir.IntConst(types.I32, n) }

func mustBuild(t *testing.T, b programs.Builder) (*ir.Graph, *ir.Function) {
	t.Helper()
	g, fn, err := b()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g, fn
}

func TestFib(t *testing.T) {
	g, fib := mustBuild(t, programs.Fib)
	in := eval.New(g, eval.Options{})
	want := []uint64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55}
	for n, w := range want {
		got, err := in.Call(context.Background(), fib, u32(uint64(n)))
		if err != nil {
			t.Fatalf("fib(%d): %v", n, err)
		}
		if !got.Equal(u32(w)) {
			t.Fatalf("fib(%d) = %s, want %d", n, got, w)
		}
	}
}

func TestProgramsTable(t *testing.T) {
	tests := []struct {
		name  string
		build programs.Builder
		args  []ir.Const
		want  ir.Const
	}{
		{"classify_0", programs.Classify, []ir.Const{u32(0)}, u32(10)},
		{"classify_1", programs.Classify, []ir.Const{u32(1)}, u32(20)},
		{"classify_other", programs.Classify, []ir.Const{u32(99)}, u32(30)},
		{"even_10", programs.Even, []ir.Const{u32(10)}, ir.BoolConst(true)},
		{"even_7", programs.Even, []ir.Const{u32(7)}, ir.BoolConst(false)},
		{"clamp_inside", programs.Clamp, []ir.Const{i32(5), i32(0), i32(10)}, i32(5)},
		{"clamp_low", programs.Clamp, []ir.Const{i32(-3), i32(0), i32(10)}, i32(0)},
		{"clamp_high", programs.Clamp, []ir.Const{i32(12), i32(0), i32(10)}, i32(10)},
		{"gcd", programs.GCD, []ir.Const{ir.UintConst(types.U64, 48), ir.UintConst(types.U64, 18)}, ir.UintConst(types.U64, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, fn := mustBuild(t, tt.build)
			got, err := eval.New(g, eval.Options{}).Call(context.Background(), fn, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %s (%s), want %s (%s)", got, got.Type, tt.want, tt.want.Type)
			}
		})
	}
}

func TestCountdownEmits(t *testing.T) {
	g, fn := mustBuild(t, programs.Countdown)
	var out bytes.Buffer
	in := eval.New(g, eval.Options{Output: &out})
	res, err := in.Call(context.Background(), fn, u32(3))
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != types.Unit {
		t.Fatalf("result type %s, want unit", res.Type)
	}
	if out.String() != "3\n2\n1\n" {
		t.Fatalf("output %q", out.String())
	}
	if len(in.Emitted()) != 3 || !in.Emitted()[2].Equal(u32(1)) {
		t.Fatalf("emitted %v", in.Emitted())
	}
}

func TestBranchWithoutElseIsNoop(t *testing.T) {
	c := ir.NewContext()
	x, err := c.Let("x", c.U32(1))
	if err != nil {
		t.Fatal(err)
	}
	err = c.Branch(c.Bool(false), func(c *ir.Context) error {
		return c.Assign(x, c.U32(2))
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	xv, _ := c.Ref(x)
	if err := c.Emit(xv); err != nil {
		t.Fatal(err)
	}

	in := eval.New(c.Graph(), eval.Options{})
	if err := in.RunRoot(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := in.Emitted(); len(got) != 1 || !got[0].Equal(u32(1)) {
		t.Fatalf("emitted %v, want [1]", got)
	}
}

func TestValuesReadVariablesAtUse(t *testing.T) {
	c := ir.NewContext()
	x, _ := c.Let("x", c.U32(1))
	xv, _ := c.Ref(x)
	next := xv.Add(c.U32(1))
	if err := c.Assign(x, c.U32(5)); err != nil {
		t.Fatal(err)
	}
	if err := c.Emit(next); err != nil {
		t.Fatal(err)
	}
	in := eval.New(c.Graph(), eval.Options{})
	if err := in.RunRoot(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := in.Emitted(); len(got) != 1 || !got[0].Equal(u32(6)) {
		t.Fatalf("emitted %v, want [6]", got)
	}
}

func TestWrapAround(t *testing.T) {
	tests := []struct {
		name string
		t    types.Type
		a, b int64
		op   func(c *ir.Context, a, b ir.Value) (ir.Value, error)
		want ir.Const
	}{
		{"u8_add", types.U8, 250, 10, (*ir.Context).Add, ir.UintConst(types.U8, 4)},
		{"u32_sub", types.U32, 0, 1, (*ir.Context).Sub, u32(4294967295)},
		{"u16_mul", types.U16, 300, 300, (*ir.Context).Mul, ir.UintConst(types.U16, 90000%65536)},
		{"i8_add", types.I8, 127, 1, (*ir.Context).Add, ir.IntConst(types.I8, -128)},
		{"i8_div", types.I8, -128, -1, (*ir.Context).Div, ir.IntConst(types.I8, -128)},
		{"u8_shl", types.U8, 1, 9, (*ir.Context).Shl, ir.UintConst(types.U8, 0)},
		{"i32_shr", types.I32, -8, 1, (*ir.Context).Shr, i32(-4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ir.NewContext()
			lit := func(n int64) ir.Value {
				if tt.t.IsSigned() {
					return c.Int(tt.t, n)
				}
				return c.Uint(tt.t, uint64(n))
			}
			v, err := tt.op(c, lit(tt.a), lit(tt.b))
			if err != nil {
				t.Fatal(err)
			}
			if err := c.Emit(v); err != nil {
				t.Fatal(err)
			}
			in := eval.New(c.Graph(), eval.Options{})
			if err := in.RunRoot(context.Background()); err != nil {
				t.Fatal(err)
			}
			if got := in.Emitted()[0]; !got.Equal(tt.want) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func evalCode(t *testing.T, err error) eval.Code {
	t.Helper()
	var ee *eval.EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want *EvalError", err)
	}
	return ee.Code
}

func TestDivideByZero(t *testing.T) {
	c := ir.NewContext()
	fn, err := c.RecursiveFunction("div", []ir.Param{{Name: "a", Type: types.U32}, {Name: "b", Type: types.U32}},
		func(_ *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			return c.Div(args[0], args[1])
		})
	if err != nil {
		t.Fatal(err)
	}
	_, err = eval.New(c.Graph(), eval.Options{}).Call(context.Background(), fn, u32(4), u32(0))
	if code := evalCode(t, err); code != eval.CodeDivideByZero {
		t.Fatalf("code = %s", code)
	}
	var ee *eval.EvalError
	errors.As(err, &ee)
	if len(ee.Backtrace) != 1 || ee.Backtrace[0].Func != "div" {
		t.Fatalf("backtrace = %+v", ee.Backtrace)
	}
}

func TestDepthLimit(t *testing.T) {
	c := ir.NewContext()
	fn, err := c.RecursiveFunction("forever", []ir.Param{{Name: "n", Type: types.U32}},
		func(self *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			return c.Call(self, args[0])
		}, ir.Returns(types.U32))
	if err != nil {
		t.Fatal(err)
	}
	_, err = eval.New(c.Graph(), eval.Options{MaxDepth: 50}).Call(context.Background(), fn, u32(1))
	if code := evalCode(t, err); code != eval.CodeDepthExceeded {
		t.Fatalf("code = %s", code)
	}
	var ee *eval.EvalError
	errors.As(err, &ee)
	if len(ee.Backtrace) != 50 {
		t.Fatalf("backtrace depth %d, want 50", len(ee.Backtrace))
	}
}

func TestStepLimitAndCancel(t *testing.T) {
	g, fib := mustBuild(t, programs.Fib)

	_, err := eval.New(g, eval.Options{MaxSteps: 1000}).Call(context.Background(), fib, u32(25))
	if code := evalCode(t, err); code != eval.CodeStepLimit {
		t.Fatalf("code = %s", code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eval.New(g, eval.Options{}).Call(ctx, fib, u32(25))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if code := evalCode(t, err); code != eval.CodeCanceled {
		t.Fatalf("code = %s", code)
	}
}

func TestNoMatchingArm(t *testing.T) {
	c := ir.NewContext()
	fn, err := c.RecursiveFunction("pick", []ir.Param{{Name: "v", Type: types.U32}},
		func(_ *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			return c.Switch(args[0], ir.Case(ir.Literal(c.U32(0)), func(c *ir.Context) (ir.Value, error) {
				return c.U32(1), nil
			}))
		})
	if err != nil {
		t.Fatal(err)
	}
	in := eval.New(c.Graph(), eval.Options{})
	if _, err := in.Call(context.Background(), fn, u32(0)); err != nil {
		t.Fatal(err)
	}
	_, err = in.Call(context.Background(), fn, u32(3))
	if code := evalCode(t, err); code != eval.CodeNoMatchingArm {
		t.Fatalf("code = %s", code)
	}
}

func TestEntryArguments(t *testing.T) {
	g, fib := mustBuild(t, programs.Fib)
	in := eval.New(g, eval.Options{})
	_, err := in.Call(context.Background(), fib)
	if code := evalCode(t, err); code != eval.CodeArity {
		t.Fatalf("code = %s", code)
	}
	_, err = in.Call(context.Background(), fib, ir.UintConst(types.U64, 3))
	if code := evalCode(t, err); code != eval.CodeBadArgument {
		t.Fatalf("code = %s", code)
	}
}

func TestRunAll(t *testing.T) {
	g, fib := mustBuild(t, programs.Fib)
	inputs := make([][]ir.Const, 20)
	for i := range inputs {
		inputs[i] = []ir.Const{u32(uint64(i))}
	}
	got, err := eval.RunAll(context.Background(), g, fib, inputs, eval.Options{}, 4)
	if err != nil {
		t.Fatal(err)
	}
	a, b := uint64(0), uint64(1)
	for i, r := range got {
		if !r.Equal(u32(a)) {
			t.Fatalf("fib(%d) = %s, want %d", i, r, a)
		}
		a, b = b, a+b
	}

	inputs[7] = nil
	if _, err := eval.RunAll(context.Background(), g, fib, inputs, eval.Options{}, 4); err == nil {
		t.Fatal("RunAll ignored a failing row")
	}
}

func TestRunAllNotify(t *testing.T) {
	g, fib := mustBuild(t, programs.Fib)
	inputs := [][]ir.Const{{u32(5)}, {u32(6)}, {u32(7)}}

	var mu sync.Mutex
	started, finished := 0, map[int]ir.Const{}
	_, err := eval.RunAllNotify(context.Background(), g, fib, inputs, eval.Options{}, 2, func(ev eval.RowEvent) {
		mu.Lock()
		defer mu.Unlock()
		if !ev.Done {
			started++
			return
		}
		finished[ev.Index] = ev.Result
	})
	if err != nil {
		t.Fatal(err)
	}
	if started != 3 || len(finished) != 3 {
		t.Fatalf("started=%d finished=%d", started, len(finished))
	}
	if !finished[2].Equal(u32(13)) {
		t.Fatalf("row 2 = %s, want 13", finished[2])
	}
}
