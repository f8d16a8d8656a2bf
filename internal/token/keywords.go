package token

var keywords = map[string]Kind{
	"DEF":       KwDef,
	"END":       KwEnd,
	"DEFFCT":    KwDefFct,
	"ENDFCT":    KwEndFct,
	"DEFDAT":    KwDefDat,
	"ENDDAT":    KwEndDat,
	"GLOBAL":    KwGlobal,
	"PUBLIC":    KwPublic,
	"DECL":      KwDecl,
	"CONST":     KwConst,
	"ENUM":      KwEnum,
	"STRUC":     KwStruc,
	"SIGNAL":    KwSignal,
	"IN":        KwIn,
	"OUT":       KwOut,
	"IF":        KwIf,
	"THEN":      KwThen,
	"ELSE":      KwElse,
	"ENDIF":     KwEndIf,
	"WHILE":     KwWhile,
	"ENDWHILE":  KwEndWhile,
	"FOR":       KwFor,
	"TO":        KwTo,
	"STEP":      KwStep,
	"ENDFOR":    KwEndFor,
	"LOOP":      KwLoop,
	"ENDLOOP":   KwEndLoop,
	"REPEAT":    KwRepeat,
	"UNTIL":     KwUntil,
	"SWITCH":    KwSwitch,
	"CASE":      KwCase,
	"DEFAULT":   KwDefault,
	"ENDSWITCH": KwEndSwitch,
	"RETURN":    KwReturn,
	"EXIT":      KwExit,
	"HALT":      KwHalt,
	"CONTINUE":  KwContinue,
	"WAIT":      KwWait,
	"SEC":       KwSec,
	"GOTO":      KwGoto,
	"PTP":       KwPtp,
	"LIN":       KwLin,
	"CIRC":      KwCirc,
	"PTP_REL":   KwPtpRel,
	"LIN_REL":   KwLinRel,
	"SPTP":      KwSPtp,
	"SLIN":      KwSLin,
	"SCIRC":     KwSCirc,
	"INTERRUPT": KwInterrupt,
	"WHEN":      KwWhen,
	"DO":        KwDo,
	"ON":        KwOn,
	"OFF":       KwOff,
	"DISABLE":   KwDisable,
	"ENABLE":    KwEnable,
	"TRIGGER":   KwTrigger,
	"DISTANCE":  KwDistance,
	"DELAY":     KwDelay,
	"TRUE":      KwTrue,
	"FALSE":     KwFalse,
	"NOT":       KwNot,
	"AND":       KwAnd,
	"OR":        KwOr,
	"EXOR":      KwExor,
	"B_NOT":     KwBNot,
	"B_AND":     KwBAnd,
	"B_OR":      KwBOr,
	"B_EXOR":    KwBExor,
}

// keywordText is the canonical upper-case spelling of every keyword kind.
var keywordText = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords))
	for s, k := range keywords {
		m[k] = s
	}
	return m
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// KRL не различает регистр: вызывающий передаёт уже свёрнутую в верхний
// регистр строку (лексер делает это через cases.Upper).
func LookupKeyword(upper string) (Kind, bool) {
	k, ok := keywords[upper]
	return k, ok
}

// Spelling returns the canonical upper-case text of a keyword kind.
func Spelling(k Kind) (string, bool) {
	s, ok := keywordText[k]
	return s, ok
}
