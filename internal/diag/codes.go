package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1004
	LexTokenTooLong       Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2002
	SynUnclosedBracket    Code = 2003
	SynUnclosedBrace      Code = 2004
	SynExpectIdentifier   Code = 2005
	SynExpectExpression   Code = 2006
	SynExpectNewline      Code = 2007
	SynExpectType         Code = 2008
	SynMissingEnd         Code = 2009
	SynUnexpectedTopLevel Code = 2010
	SynBadParam           Code = 2011
	SynDeclAfterStatement Code = 2012
	SynForBadHeader       Code = 2013
	SynBadWait            Code = 2014
	SynNoRoutine          Code = 2015
	SynNoDataList         Code = 2016
	SynMultipleDataLists  Code = 2017
	SynBadInterrupt       Code = 2018
	SynBadSwitch          Code = 2019
	SynNestingTooDeep     Code = 2020

	// Правила линтера, ID вида KRL001
	KrlNameMismatch         Code = 3001
	KrlDuplicateDeclaration Code = 3002
	KrlDuplicateRoutine     Code = 3003
	KrlUnusedVariable       Code = 3004
	KrlUndefinedLabel       Code = 3005
	KrlGotoUsage            Code = 3006
	KrlKeywordCase          Code = 3007
	KrlTrailingWhitespace   Code = 3008
	KrlLineTooLong          Code = 3009
	KrlEmptyBlock           Code = 3010
	KrlLoopWithoutExit      Code = 3011
	KrlMissingReturn        Code = 3012
	KrlUnreachableCode      Code = 3013
	KrlConstantCondition    Code = 3014
	KrlParamDirection       Code = 3015
	KrlGlobalInPrivateDat   Code = 3016
	KrlFoldBalance          Code = 3017
	KrlSelfAssignment       Code = 3018

	// Ошибки I/O и внутренние сбои
	IOLoadFileError Code = 4001
	IOInternalError Code = 4002
	IOFixWriteError Code = 4003

	// Observability
	ObsInfo                 Code = 6000
	ObsDiagnosticsTruncated Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		LexInfo:                 "Lexical information",
		LexUnknownChar:          "Unknown character",
		LexUnterminatedString:   "Unterminated string",
		LexBadNumber:            "Bad number",
		LexTokenTooLong:         "Token too long",
		SynInfo:                 "Syntax information",
		SynUnexpectedToken:      "Unexpected token",
		SynUnclosedParen:        "Unclosed parenthesis",
		SynUnclosedBracket:      "Unclosed bracket",
		SynUnclosedBrace:        "Unclosed brace",
		SynExpectIdentifier:     "Expect identifier",
		SynExpectExpression:     "Expect expression",
		SynExpectNewline:        "Expect end of line",
		SynExpectType:           "Expect type",
		SynMissingEnd:           "Block is not closed",
		SynUnexpectedTopLevel:   "Unexpected top level",
		SynBadParam:             "Malformed parameter",
		SynDeclAfterStatement:   "Declaration after first statement",
		SynForBadHeader:         "Malformed FOR header",
		SynBadWait:              "Malformed WAIT",
		SynNoRoutine:            "No module or function definition found",
		SynNoDataList:           "No data definition found",
		SynMultipleDataLists:    "More than one data definition found",
		SynBadInterrupt:         "Malformed INTERRUPT",
		SynBadSwitch:            "Malformed SWITCH",
		SynNestingTooDeep:       "Nesting too deep",
		KrlNameMismatch:         "Routine name differs from file name",
		KrlDuplicateDeclaration: "Duplicate declaration",
		KrlDuplicateRoutine:     "Duplicate routine",
		KrlUnusedVariable:       "Unused variable",
		KrlUndefinedLabel:       "Undefined label",
		KrlGotoUsage:            "GOTO usage",
		KrlKeywordCase:          "Keyword not upper case",
		KrlTrailingWhitespace:   "Trailing whitespace",
		KrlLineTooLong:          "Line too long",
		KrlEmptyBlock:           "Empty block",
		KrlLoopWithoutExit:      "LOOP without exit",
		KrlMissingReturn:        "Function without RETURN",
		KrlUnreachableCode:      "Unreachable code",
		KrlConstantCondition:    "Constant condition",
		KrlParamDirection:       "Parameter without direction",
		KrlGlobalInPrivateDat:   "GLOBAL declaration in private data list",
		KrlFoldBalance:          "Unbalanced FOLD",
		KrlSelfAssignment:       "Self assignment",
		IOLoadFileError:         "I/O load file error",
		IOInternalError:         "Internal analyzer failure",
		IOFixWriteError:         "Failed to write fixed file",
		ObsInfo:                 "Observability information",
		ObsDiagnosticsTruncated: "Diagnostics truncated",
	}
)

// ID returns the stable textual identifier (LEX1001, SYN2001, KRL004, IO4001).
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("KRL%03d", ic-3000)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

// IsRule reports whether c belongs to a lint rule (KRLxxx) rather than a phase.
func (c Code) IsRule() bool {
	return c >= 3000 && c < 4000
}

// IsToolFailure reports whether c describes a failure of the tool itself.
func (c Code) IsToolFailure() bool {
	return c >= 4000 && c < 5000
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
