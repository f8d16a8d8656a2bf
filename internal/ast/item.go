package ast

import (
	"krllint/internal/source"
)

type ItemKind uint8

const (
	// ItemRoutine is DEF ... END.
	ItemRoutine ItemKind = iota
	// ItemFunction is DEFFCT type ... ENDFCT.
	ItemFunction
	// ItemDataList is DEFDAT ... ENDDAT.
	ItemDataList
)

func (k ItemKind) String() string {
	switch k {
	case ItemRoutine:
		return "Routine"
	case ItemFunction:
		return "Function"
	case ItemDataList:
		return "DataList"
	default:
		return "ItemKind(?)"
	}
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Ident is a name together with its location.
type Ident struct {
	Name string
	Span source.Span
}

// TypeRef names a KRL data type (INT, REAL, E6POS, user STRUC/ENUM).
type TypeRef struct {
	Name string
	Span source.Span
}

type ParamDir uint8

const (
	// ParamDirNone means no ":IN" / ":OUT" was written; KRL then passes by reference.
	ParamDirNone ParamDir = iota
	ParamDirIn
	ParamDirOut
)

func (d ParamDir) String() string {
	switch d {
	case ParamDirIn:
		return "IN"
	case ParamDirOut:
		return "OUT"
	default:
		return ""
	}
}

type Param struct {
	Name    Ident
	IsArray bool // name[]
	Dir     ParamDir
	DirSpan source.Span
	Span    source.Span
}

// RoutineItem covers both DEF and DEFFCT; ReturnType is set only for functions.
type RoutineItem struct {
	Name       Ident
	Global     bool
	GlobalSpan source.Span
	ReturnType TypeRef
	Params     []ParamID
	Decls      []StmtID
	Body       []StmtID
	HeaderSpan source.Span
	EndSpan    source.Span
	Closed     bool // false when the END/ENDFCT keyword was missing
}

type DataListItem struct {
	Name       Ident
	Public     bool
	PublicSpan source.Span
	Decls      []StmtID
	HeaderSpan source.Span
	EndSpan    source.Span
	Closed     bool
}

type Items struct {
	Arena     *Arena[Item]
	Routines  *Arena[RoutineItem]
	DataLists *Arena[DataListItem]
	Params    *Arena[Param]
}

// NewItems creates and returns an *Items with per-kind arenas initialized to capHint.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 3
	}
	return &Items{
		Arena:     NewArena[Item](capHint),
		Routines:  NewArena[RoutineItem](capHint),
		DataLists: NewArena[DataListItem](1),
		Params:    NewArena[Param](capHint * 2),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Push(Item{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// NewRoutine allocates a DEF (isFunction=false) or DEFFCT item.
func (i *Items) NewRoutine(span source.Span, isFunction bool, data RoutineItem) ItemID {
	kind := ItemRoutine
	if isFunction {
		kind = ItemFunction
	}
	payload := i.Routines.Push(data)
	return i.new(kind, span, PayloadID(payload))
}

// Routine returns the payload of a DEF or DEFFCT item.
func (i *Items) Routine(id ItemID) (*RoutineItem, bool) {
	item := i.Get(id)
	if item == nil || (item.Kind != ItemRoutine && item.Kind != ItemFunction) {
		return nil, false
	}
	return i.Routines.Get(uint32(item.Payload)), true
}

func (i *Items) NewDataList(span source.Span, data DataListItem) ItemID {
	payload := i.DataLists.Push(data)
	return i.new(ItemDataList, span, PayloadID(payload))
}

func (i *Items) DataList(id ItemID) (*DataListItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemDataList {
		return nil, false
	}
	return i.DataLists.Get(uint32(item.Payload)), true
}

func (i *Items) NewParam(p Param) ParamID {
	return ParamID(i.Params.Push(p))
}

func (i *Items) Param(id ParamID) *Param {
	return i.Params.Get(uint32(id))
}

// Name returns the declared name of any item kind.
func (i *Items) Name(id ItemID) Ident {
	if r, ok := i.Routine(id); ok {
		return r.Name
	}
	if d, ok := i.DataList(id); ok {
		return d.Name
	}
	return Ident{}
}
