package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline terminates a statement or declaration.
	Newline
	// Ident represents an identifier, including $-prefixed system variables.
	Ident
	// FileAttr is a header line such as "&ACCESS RVP".
	FileAttr

	// IntLit represents an integer literal (123).
	IntLit
	// RealLit represents a real literal (1.5, 1.0E-3, .5).
	RealLit
	// BitLit represents a binary literal ('B0101').
	BitLit
	// HexLit represents a hexadecimal literal ('H1F').
	HexLit
	// StringLit represents a string or character literal.
	StringLit
	// EnumLit represents an enumeration literal (#NAME).
	EnumLit

	keywordBeg
	KwDef       // DEF
	KwEnd       // END
	KwDefFct    // DEFFCT
	KwEndFct    // ENDFCT
	KwDefDat    // DEFDAT
	KwEndDat    // ENDDAT
	KwGlobal    // GLOBAL
	KwPublic    // PUBLIC
	KwDecl      // DECL
	KwConst     // CONST
	KwEnum      // ENUM
	KwStruc     // STRUC
	KwSignal    // SIGNAL
	KwIn        // IN
	KwOut       // OUT
	KwIf        // IF
	KwThen      // THEN
	KwElse      // ELSE
	KwEndIf     // ENDIF
	KwWhile     // WHILE
	KwEndWhile  // ENDWHILE
	KwFor       // FOR
	KwTo        // TO
	KwStep      // STEP
	KwEndFor    // ENDFOR
	KwLoop      // LOOP
	KwEndLoop   // ENDLOOP
	KwRepeat    // REPEAT
	KwUntil     // UNTIL
	KwSwitch    // SWITCH
	KwCase      // CASE
	KwDefault   // DEFAULT
	KwEndSwitch // ENDSWITCH
	KwReturn    // RETURN
	KwExit      // EXIT
	KwHalt      // HALT
	KwContinue  // CONTINUE
	KwWait      // WAIT
	KwSec       // SEC
	KwGoto      // GOTO
	KwPtp       // PTP
	KwLin       // LIN
	KwCirc      // CIRC
	KwPtpRel    // PTP_REL
	KwLinRel    // LIN_REL
	KwSPtp      // SPTP
	KwSLin      // SLIN
	KwSCirc     // SCIRC
	KwInterrupt // INTERRUPT
	KwWhen      // WHEN
	KwDo        // DO
	KwOn        // ON
	KwOff       // OFF
	KwDisable   // DISABLE
	KwEnable    // ENABLE
	KwTrigger   // TRIGGER
	KwDistance  // DISTANCE
	KwDelay     // DELAY
	KwTrue      // TRUE
	KwFalse     // FALSE
	KwNot       // NOT
	KwAnd       // AND
	KwOr        // OR
	KwExor      // EXOR
	KwBNot      // B_NOT
	KwBAnd      // B_AND
	KwBOr       // B_OR
	KwBExor     // B_EXOR
	keywordEnd

	Assign   // =
	EqEq     // ==
	NotEq    // <>
	Lt       // <
	LtEq     // <=
	Gt       // >
	GtEq     // >=
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Colon    // :
	Comma    // ,
	Dot      // .
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }
)

var kindNames = map[Kind]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Newline:   "Newline",
	Ident:     "Ident",
	FileAttr:  "FileAttr",
	IntLit:    "IntLit",
	RealLit:   "RealLit",
	BitLit:    "BitLit",
	HexLit:    "HexLit",
	StringLit: "StringLit",
	EnumLit:   "EnumLit",
	Assign:    "=",
	EqEq:      "==",
	NotEq:     "<>",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Colon:     ":",
	Comma:     ",",
	Dot:       ".",
	LParen:    "(",
	RParen:    ")",
	LBracket:  "[",
	RBracket:  "]",
	LBrace:    "{",
	RBrace:    "}",
}

func (k Kind) String() string {
	if k.IsKeyword() {
		return keywordText[k]
	}
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k > keywordBeg && k < keywordEnd
}

// IsLiteral reports whether k is a literal kind, TRUE and FALSE included.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, RealLit, BitLit, HexLit, StringLit, EnumLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsMotion reports whether k starts a motion instruction.
func (k Kind) IsMotion() bool {
	switch k {
	case KwPtp, KwLin, KwCirc, KwPtpRel, KwLinRel, KwSPtp, KwSLin, KwSCirc:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether k is punctuation or an operator.
func (k Kind) IsPunctOrOp() bool {
	return k >= Assign && k <= RBrace
}
