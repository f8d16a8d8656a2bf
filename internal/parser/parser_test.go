package parser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/lexer"
	"krllint/internal/source"
)

func TestParseRoutine(t *testing.T) {
	src := `&ACCESS RVP
DEF main(count :IN, arr[] :OUT)
  DECL INT i
  i = 0
  FOR i = 1 TO 10 STEP 2
    arr[i] = i * 2
  ENDFOR
  IF i > 3 THEN
    PTP HOME
  ELSE
    LIN XP1 C_DIS
  ENDIF
END
`
	p := parseSource(t, src)
	p.expectClean(t)

	f := p.builder.Files.Get(p.file)
	if len(f.Attrs) != 1 || f.Attrs[0].Text != "&ACCESS RVP" {
		t.Fatalf("attrs: %+v", f.Attrs)
	}

	r := p.routine(t, 0)
	if r.Name.Name != "main" || !r.Closed {
		t.Fatalf("routine %q closed=%v", r.Name.Name, r.Closed)
	}
	if len(r.Params) != 2 {
		t.Fatalf("want 2 params, got %d", len(r.Params))
	}
	arr := p.builder.Items.Param(r.Params[1])
	if !arr.IsArray || arr.Dir != ast.ParamDirOut {
		t.Fatalf("arr param: %+v", arr)
	}
	if len(r.Decls) != 1 {
		t.Fatalf("want 1 decl, got %d", len(r.Decls))
	}

	var kinds []ast.StmtKind
	for _, id := range r.Body {
		kinds = append(kinds, p.builder.Stmts.Get(id).Kind)
	}
	want := []ast.StmtKind{ast.StmtAssign, ast.StmtFor, ast.StmtIf}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("body kinds mismatch (-want +got):\n%s", diff)
	}

	ifStmt, _ := p.builder.Stmts.If(r.Body[2])
	if !ifStmt.HasElse || len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("if: %+v", ifStmt)
	}
	lin, ok := p.builder.Stmts.Motion(ifStmt.Else[0])
	if !ok || lin.Approx.Name != "C_DIS" || len(lin.Args) != 1 {
		t.Fatalf("motion: %+v", lin)
	}
}

func TestParseFunction(t *testing.T) {
	src := `GLOBAL DEFFCT INT add(a :IN, b :IN)
  RETURN a + b
ENDFCT
`
	p := parseSource(t, src)
	p.expectClean(t)

	item := p.builder.Items.Get(p.items()[0])
	if item.Kind != ast.ItemFunction {
		t.Fatalf("want function, got %s", item.Kind)
	}
	r := p.routine(t, 0)
	if !r.Global || r.ReturnType.Name != "INT" {
		t.Fatalf("function header: %+v", r)
	}
	ret, ok := p.builder.Stmts.Return(r.Body[0])
	if !ok {
		t.Fatalf("want RETURN")
	}
	if got := sexpr(p.builder, ret.Value); got != "(+ a b)" {
		t.Fatalf("return value %s", got)
	}
}

func TestParseDataList(t *testing.T) {
	src := `DEFDAT main PUBLIC
  DECL GLOBAL INT counter = 0
  DECL INT nums[3]
  nums[1] = 5
  EXT helper(INT :IN)
  STRUC POINT REAL X, Y, INT ID
ENDDAT
`
	p := parseWith(t, "main.dat", src, Options{})
	p.expectClean(t)

	dl, ok := p.builder.Items.DataList(p.items()[0])
	if !ok {
		t.Fatalf("want data list")
	}
	if !dl.Public || !dl.Closed || len(dl.Decls) != 5 {
		t.Fatalf("data list: public=%v closed=%v decls=%d", dl.Public, dl.Closed, len(dl.Decls))
	}

	ext, ok := p.builder.Stmts.Decl(dl.Decls[3])
	if !ok || !ext.External || ext.Vars[0].Name.Name != "helper" {
		t.Fatalf("EXT: %+v", ext)
	}

	st, ok := p.builder.Stmts.Struc(dl.Decls[4])
	if !ok {
		t.Fatalf("want STRUC")
	}
	var groups [][]string
	for _, f := range st.Fields {
		var names []string
		for _, n := range f.Names {
			names = append(names, f.Type.Name+" "+n.Name.Name)
		}
		groups = append(groups, names)
	}
	want := [][]string{{"REAL X", "REAL Y"}, {"INT ID"}}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Fatalf("struc fields (-want +got):\n%s", diff)
	}
}

func TestParseSwitchInterruptTrigger(t *testing.T) {
	src := `DEF main()
  GLOBAL INTERRUPT DECL 3 WHEN $IN[1] == TRUE DO handler()
  INTERRUPT ON 3
  SWITCH mode
  CASE 1, 2
    WAIT SEC 0.5
  DEFAULT
    WAIT FOR $IN[2]
  ENDSWITCH
  TRIGGER WHEN DISTANCE = 0 DELAY = 20 DO $OUT[1] = TRUE PRIO = -1
END
`
	p := parseSource(t, src)
	p.expectClean(t)
	r := p.routine(t, 0)
	if len(r.Body) != 4 {
		t.Fatalf("want 4 statements, got %d", len(r.Body))
	}

	decl, _ := p.builder.Stmts.Interrupt(r.Body[0])
	if decl.Mode != ast.InterruptDecl || !decl.Global {
		t.Fatalf("interrupt decl: %+v", decl)
	}
	if got := sexpr(p.builder, decl.Do); got != "handler()" {
		t.Fatalf("handler %s", got)
	}

	sw, _ := p.builder.Stmts.Switch(r.Body[2])
	if len(sw.Cases) != 1 || len(sw.Cases[0].Values) != 2 || !sw.HasDefault || len(sw.Default) != 1 {
		t.Fatalf("switch: %+v", sw)
	}

	trig, _ := p.builder.Stmts.Trigger(r.Body[3])
	if trig.When.Name != "DISTANCE" || trig.Prio == ast.NoExprID {
		t.Fatalf("trigger: %+v", trig)
	}
	if p.builder.Stmts.Get(trig.Action).Kind != ast.StmtAssign {
		t.Fatalf("trigger action is %s", p.builder.Stmts.Get(trig.Action).Kind)
	}
}

func TestInterruptHandlerMustBeCall(t *testing.T) {
	p := parseSource(t, "DEF main()\n  INTERRUPT DECL 3 WHEN flag DO handler\nEND\n")
	if diff := cmp.Diff([]string{"SYN2018"}, codes(p.bag)); diff != "" {
		t.Fatalf("codes (-want +got):\n%s\n%s", diff, diagnosticsSummary(p.bag))
	}
}

func TestStructureChecks(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		want []string
	}{
		{"src without routine", "a.src", "DEFDAT a\nENDDAT\n", []string{"SYN2010", "SYN2015"}},
		{"dat without data list", "a.dat", "DEF a()\nEND\n", []string{"SYN2010", "SYN2016"}},
		{"dat with two data lists", "a.dat", "DEFDAT a\nENDDAT\nDEFDAT b\nENDDAT\n", []string{"SYN2017"}},
		{"sub with routine", "a.sub", "DEF a()\nEND\n", nil},
		{"other extension", "a.txt", "DEFDAT a\nENDDAT\n", nil},
		{"empty src", "a.src", "", nil},
		{"comments only", "a.src", "; nothing here\n\n  ; still nothing\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseWith(t, tt.path, tt.src, Options{})
			if diff := cmp.Diff(tt.want, codes(p.bag)); diff != "" {
				t.Fatalf("codes (-want +got):\n%s\n%s", diff, diagnosticsSummary(p.bag))
			}
		})
	}
}

func TestMissingFileLevelCheckSpan(t *testing.T) {
	p := parseWith(t, "a.src", "DEFDAT a\nENDDAT\n", Options{})
	for _, d := range p.bag.Items() {
		if d.Code == diag.SynNoRoutine && (d.Primary.Start != 0 || d.Primary.End != 0) {
			t.Fatalf("SYN2015 must point at the file start, got %s", d.Primary)
		}
	}
}

func TestExplicitKindOverridesExtension(t *testing.T) {
	p := parseWith(t, "a.txt", "DEF a()\nEND\n", Options{Kind: FileKindData})
	if diff := cmp.Diff([]string{"SYN2010", "SYN2016"}, codes(p.bag)); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
}

func TestKindFromPath(t *testing.T) {
	cases := map[string]FileKind{
		"a.src":     FileKindSource,
		"dir/B.SUB": FileKindSource,
		"c.Dat":     FileKindData,
		"d.krl":     FileKindAny,
		"noext":     FileKindAny,
	}
	for path, want := range cases {
		if got := KindFromPath(path); got != want {
			t.Errorf("KindFromPath(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestParseStopsOnCancelledContext(t *testing.T) {
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual("main.src", []byte("DEF a()\nEND\nDEF b()\nEND\n"))
	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(ctx, fs, lexer.New(fs.Get(id), lexer.Options{Reporter: rep}), b, Options{Reporter: rep, Kind: FileKindAny})
	if n := len(b.Files.Get(res.File).Items); n != 0 {
		t.Fatalf("cancelled parse produced %d items", n)
	}
}
