package ast

import (
	"krllint/internal/source"
)

type StmtKind uint8

const (
	StmtBad StmtKind = iota // остаток строки после восстановления парсера
	StmtDecl
	StmtEnum
	StmtStruc
	StmtSignal
	StmtAssign
	StmtCall
	StmtIf
	StmtWhile
	StmtFor
	StmtLoop
	StmtRepeat
	StmtSwitch
	StmtReturn
	StmtExit
	StmtHalt
	StmtContinue
	StmtWait
	StmtGoto
	StmtLabel
	StmtMotion
	StmtInterrupt
	StmtTrigger
)

var stmtKindNames = [...]string{
	StmtBad:       "Bad",
	StmtDecl:      "Decl",
	StmtEnum:      "Enum",
	StmtStruc:     "Struc",
	StmtSignal:    "Signal",
	StmtAssign:    "Assign",
	StmtCall:      "Call",
	StmtIf:        "If",
	StmtWhile:     "While",
	StmtFor:       "For",
	StmtLoop:      "Loop",
	StmtRepeat:    "Repeat",
	StmtSwitch:    "Switch",
	StmtReturn:    "Return",
	StmtExit:      "Exit",
	StmtHalt:      "Halt",
	StmtContinue:  "Continue",
	StmtWait:      "Wait",
	StmtGoto:      "Goto",
	StmtLabel:     "Label",
	StmtMotion:    "Motion",
	StmtInterrupt: "Interrupt",
	StmtTrigger:   "Trigger",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "StmtKind(?)"
}

// IsDecl reports whether k belongs to the declaration section of a routine.
func (k StmtKind) IsDecl() bool {
	switch k {
	case StmtDecl, StmtEnum, StmtStruc, StmtSignal:
		return true
	default:
		return false
	}
}

// Terminates reports whether control never falls through a statement of kind k.
func (k StmtKind) Terminates() bool {
	switch k {
	case StmtReturn, StmtExit, StmtHalt, StmtGoto:
		return true
	default:
		return false
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// DeclVar is one name of a declaration list: "x", "arr[10]", "y = 5".
type DeclVar struct {
	Name Ident
	Dims []ExprID
	Init ExprID
}

// DeclStmt: [DECL] [GLOBAL] [CONST] type name[, name...].
type DeclStmt struct {
	HasDecl    bool
	Global     bool
	GlobalSpan source.Span
	Const      bool
	External   bool // EXT/EXTFCT forward declaration; Vars holds the routine name
	Type       TypeRef
	Vars       []DeclVar
}

type EnumStmt struct {
	Global     bool
	GlobalSpan source.Span
	Name       Ident
	Members    []Ident
}

type StrucField struct {
	Type  TypeRef
	Names []DeclVar
}

type StrucStmt struct {
	Global     bool
	GlobalSpan source.Span
	Name       Ident
	Fields     []StrucField
}

// SignalStmt: SIGNAL name $IN[1] [TO $IN[8]].
type SignalStmt struct {
	Global     bool
	GlobalSpan source.Span
	Name       Ident
	From       ExprID
	To         ExprID
}

type AssignStmt struct {
	Target ExprID
	Value  ExprID
}

type CallStmt struct {
	Call ExprID
}

type IfStmt struct {
	Cond     ExprID
	Then     []StmtID
	HasElse  bool
	ElseSpan source.Span
	Else     []StmtID
	EndSpan  source.Span
}

// CondLoopStmt serves WHILE (Cond before Body) and REPEAT (Cond after Body).
type CondLoopStmt struct {
	Cond    ExprID
	Body    []StmtID
	EndSpan source.Span
}

type ForStmt struct {
	Var  Ident
	From ExprID
	To   ExprID
	Step ExprID
	Body []StmtID
}

type LoopStmt struct {
	Body []StmtID
}

type SwitchCase struct {
	Values []ExprID
	Body   []StmtID
	Span   source.Span // CASE keyword line
}

type SwitchStmt struct {
	Subject     ExprID
	Cases       []SwitchCase
	HasDefault  bool
	DefaultSpan source.Span
	Default     []StmtID
}

type ReturnStmt struct {
	Value ExprID
}

type WaitStmt struct {
	Sec   bool // WAIT SEC expr; otherwise WAIT FOR expr
	Value ExprID
}

// JumpStmt serves GOTO target and "target:" label definitions.
type JumpStmt struct {
	Label Ident
}

type MotionStmt struct {
	Instr  Ident // PTP, LIN, ... as written
	Args   []ExprID
	Approx Ident // C_PTP, C_DIS, ... or empty
}

type InterruptMode uint8

const (
	InterruptDecl InterruptMode = iota
	InterruptOn
	InterruptOff
	InterruptDisable
	InterruptEnable
)

type InterruptStmt struct {
	Mode     InterruptMode
	Global   bool
	Priority ExprID
	When     ExprID
	Do       ExprID
	Target   ExprID // interrupt number for ON/OFF/ENABLE/DISABLE, may be absent
}

// TriggerStmt: TRIGGER WHEN DISTANCE=0 DELAY=20 DO action.
type TriggerStmt struct {
	When   Ident // DISTANCE or PATH
	At     ExprID
	Delay  ExprID
	Action StmtID
	Prio   ExprID
}

type Stmts struct {
	Arena      *Arena[Stmt]
	Decls      *Arena[DeclStmt]
	Enums      *Arena[EnumStmt]
	Strucs     *Arena[StrucStmt]
	Signals    *Arena[SignalStmt]
	Assigns    *Arena[AssignStmt]
	Calls      *Arena[CallStmt]
	Ifs        *Arena[IfStmt]
	CondLoops  *Arena[CondLoopStmt]
	Fors       *Arena[ForStmt]
	Loops      *Arena[LoopStmt]
	Switches   *Arena[SwitchStmt]
	Returns    *Arena[ReturnStmt]
	Waits      *Arena[WaitStmt]
	Jumps      *Arena[JumpStmt]
	Motions    *Arena[MotionStmt]
	Interrupts *Arena[InterruptStmt]
	Triggers   *Arena[TriggerStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Stmts{
		Arena:      NewArena[Stmt](capHint),
		Decls:      NewArena[DeclStmt](small),
		Enums:      NewArena[EnumStmt](1),
		Strucs:     NewArena[StrucStmt](1),
		Signals:    NewArena[SignalStmt](1),
		Assigns:    NewArena[AssignStmt](capHint / 2),
		Calls:      NewArena[CallStmt](small),
		Ifs:        NewArena[IfStmt](small),
		CondLoops:  NewArena[CondLoopStmt](small),
		Fors:       NewArena[ForStmt](small),
		Loops:      NewArena[LoopStmt](1),
		Switches:   NewArena[SwitchStmt](1),
		Returns:    NewArena[ReturnStmt](small),
		Waits:      NewArena[WaitStmt](small),
		Jumps:      NewArena[JumpStmt](1),
		Motions:    NewArena[MotionStmt](small),
		Interrupts: NewArena[InterruptStmt](1),
		Triggers:   NewArena[TriggerStmt](1),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Push(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kinds ...StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil {
		return 0, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return uint32(st.Payload), true
		}
	}
	return 0, false
}

// NewSimple allocates a statement without payload (EXIT, HALT, CONTINUE, Bad).
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, 0)
}

func (s *Stmts) NewDecl(span source.Span, d DeclStmt) StmtID {
	return s.new(StmtDecl, span, s.Decls.Push(d))
}

func (s *Stmts) Decl(id StmtID) (*DeclStmt, bool) {
	p, ok := s.payload(id, StmtDecl)
	if !ok {
		return nil, false
	}
	return s.Decls.Get(p), true
}

func (s *Stmts) NewEnum(span source.Span, d EnumStmt) StmtID {
	return s.new(StmtEnum, span, s.Enums.Push(d))
}

func (s *Stmts) Enum(id StmtID) (*EnumStmt, bool) {
	p, ok := s.payload(id, StmtEnum)
	if !ok {
		return nil, false
	}
	return s.Enums.Get(p), true
}

func (s *Stmts) NewStruc(span source.Span, d StrucStmt) StmtID {
	return s.new(StmtStruc, span, s.Strucs.Push(d))
}

func (s *Stmts) Struc(id StmtID) (*StrucStmt, bool) {
	p, ok := s.payload(id, StmtStruc)
	if !ok {
		return nil, false
	}
	return s.Strucs.Get(p), true
}

func (s *Stmts) NewSignal(span source.Span, d SignalStmt) StmtID {
	return s.new(StmtSignal, span, s.Signals.Push(d))
}

func (s *Stmts) Signal(id StmtID) (*SignalStmt, bool) {
	p, ok := s.payload(id, StmtSignal)
	if !ok {
		return nil, false
	}
	return s.Signals.Get(p), true
}

func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Push(AssignStmt{Target: target, Value: value}))
}

func (s *Stmts) Assign(id StmtID) (*AssignStmt, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(p), true
}

func (s *Stmts) NewCall(span source.Span, call ExprID) StmtID {
	return s.new(StmtCall, span, s.Calls.Push(CallStmt{Call: call}))
}

func (s *Stmts) Call(id StmtID) (*CallStmt, bool) {
	p, ok := s.payload(id, StmtCall)
	if !ok {
		return nil, false
	}
	return s.Calls.Get(p), true
}

func (s *Stmts) NewIf(span source.Span, d IfStmt) StmtID {
	return s.new(StmtIf, span, s.Ifs.Push(d))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

// NewCondLoop allocates a WHILE or REPEAT statement.
func (s *Stmts) NewCondLoop(kind StmtKind, span source.Span, d CondLoopStmt) StmtID {
	return s.new(kind, span, s.CondLoops.Push(d))
}

func (s *Stmts) CondLoop(id StmtID) (*CondLoopStmt, bool) {
	p, ok := s.payload(id, StmtWhile, StmtRepeat)
	if !ok {
		return nil, false
	}
	return s.CondLoops.Get(p), true
}

func (s *Stmts) NewFor(span source.Span, d ForStmt) StmtID {
	return s.new(StmtFor, span, s.Fors.Push(d))
}

func (s *Stmts) For(id StmtID) (*ForStmt, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

func (s *Stmts) NewLoop(span source.Span, body []StmtID) StmtID {
	return s.new(StmtLoop, span, s.Loops.Push(LoopStmt{Body: body}))
}

func (s *Stmts) Loop(id StmtID) (*LoopStmt, bool) {
	p, ok := s.payload(id, StmtLoop)
	if !ok {
		return nil, false
	}
	return s.Loops.Get(p), true
}

func (s *Stmts) NewSwitch(span source.Span, d SwitchStmt) StmtID {
	return s.new(StmtSwitch, span, s.Switches.Push(d))
}

func (s *Stmts) Switch(id StmtID) (*SwitchStmt, bool) {
	p, ok := s.payload(id, StmtSwitch)
	if !ok {
		return nil, false
	}
	return s.Switches.Get(p), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Push(ReturnStmt{Value: value}))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(p), true
}

func (s *Stmts) NewWait(span source.Span, d WaitStmt) StmtID {
	return s.new(StmtWait, span, s.Waits.Push(d))
}

func (s *Stmts) Wait(id StmtID) (*WaitStmt, bool) {
	p, ok := s.payload(id, StmtWait)
	if !ok {
		return nil, false
	}
	return s.Waits.Get(p), true
}

// NewJump allocates a GOTO or a label definition.
func (s *Stmts) NewJump(kind StmtKind, span source.Span, label Ident) StmtID {
	return s.new(kind, span, s.Jumps.Push(JumpStmt{Label: label}))
}

func (s *Stmts) Jump(id StmtID) (*JumpStmt, bool) {
	p, ok := s.payload(id, StmtGoto, StmtLabel)
	if !ok {
		return nil, false
	}
	return s.Jumps.Get(p), true
}

func (s *Stmts) NewMotion(span source.Span, d MotionStmt) StmtID {
	return s.new(StmtMotion, span, s.Motions.Push(d))
}

func (s *Stmts) Motion(id StmtID) (*MotionStmt, bool) {
	p, ok := s.payload(id, StmtMotion)
	if !ok {
		return nil, false
	}
	return s.Motions.Get(p), true
}

func (s *Stmts) NewInterrupt(span source.Span, d InterruptStmt) StmtID {
	return s.new(StmtInterrupt, span, s.Interrupts.Push(d))
}

func (s *Stmts) Interrupt(id StmtID) (*InterruptStmt, bool) {
	p, ok := s.payload(id, StmtInterrupt)
	if !ok {
		return nil, false
	}
	return s.Interrupts.Get(p), true
}

func (s *Stmts) NewTrigger(span source.Span, d TriggerStmt) StmtID {
	return s.new(StmtTrigger, span, s.Triggers.Push(d))
}

func (s *Stmts) Trigger(id StmtID) (*TriggerStmt, bool) {
	p, ok := s.payload(id, StmtTrigger)
	if !ok {
		return nil, false
	}
	return s.Triggers.Get(p), true
}
