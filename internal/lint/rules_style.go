package lint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"krllint/internal/diag"
	"krllint/internal/fix"
	"krllint/internal/source"
	"krllint/internal/token"
)

// KeywordCase: keywords are written in upper case.
type KeywordCase struct{}

func (KeywordCase) Meta() Meta {
	return Meta{
		Code:            diag.KrlKeywordCase,
		Name:            "keyword-case",
		Description:     "keyword is not written in upper case",
		DefaultSeverity: diag.SevInfo,
		DefaultEnabled:  true,
	}
}

func (KeywordCase) NewVisitor(p *Pass) Visitor { return &keywordCase{p: p} }

type keywordCase struct {
	BaseVisitor
	p *Pass
}

func (v *keywordCase) Finish() {
	for _, tok := range v.p.Tokens {
		if !tok.IsKeyword() {
			continue
		}
		upper := v.p.Upper(tok.Text)
		if upper == tok.Text {
			continue
		}
		v.p.ReportWithFix(tok.Span,
			fmt.Sprintf("keyword %q should be written %s", tok.Text, upper),
			fix.For(diag.KrlKeywordCase).Replace("write "+upper, tok.Span, tok.Text, upper, fix.Preferred()))
	}
}

// TrailingWhitespace: blanks before the end of a line.
type TrailingWhitespace struct{}

func (TrailingWhitespace) Meta() Meta {
	return Meta{
		Code:            diag.KrlTrailingWhitespace,
		Name:            "trailing-whitespace",
		Description:     "line ends with spaces or tabs",
		DefaultSeverity: diag.SevInfo,
		DefaultEnabled:  true,
	}
}

func (TrailingWhitespace) NewVisitor(p *Pass) Visitor { return &trailingWhitespace{p: p} }

type trailingWhitespace struct {
	BaseVisitor
	p *Pass
}

func (v *trailingWhitespace) Finish() {
	f := v.p.Source
	if f == nil {
		return
	}
	for line := uint32(1); line <= f.LineCount(); line++ {
		sp := f.LineSpan(line)
		text := string(f.Content[sp.Start:sp.End])
		trimmed := strings.TrimRight(text, " \t")
		if len(trimmed) == len(text) {
			continue
		}
		blank := source.Span{File: sp.File, Start: sp.Start + uint32(len(trimmed)), End: sp.End}
		v.p.ReportWithFix(blank, "trailing whitespace",
			fix.For(diag.KrlTrailingWhitespace).Delete("remove trailing whitespace", blank, text[len(trimmed):]))
	}
}

// LineTooLong: display width of a line over max-length columns.
type LineTooLong struct{}

const defaultMaxLineLength = 120

func (LineTooLong) Meta() Meta {
	return Meta{
		Code:            diag.KrlLineTooLong,
		Name:            "line-too-long",
		Description:     "line is wider than max-length columns",
		DefaultSeverity: diag.SevInfo,
		DefaultEnabled:  true,
		Options: []OptionSpec{{
			Key:         "max-length",
			Kind:        OptionInt,
			Default:     defaultMaxLineLength,
			Description: "maximum display width of a line",
		}},
	}
}

func (LineTooLong) NewVisitor(p *Pass) Visitor { return &lineTooLong{p: p} }

type lineTooLong struct {
	BaseVisitor
	p *Pass
}

func (v *lineTooLong) Finish() {
	f := v.p.Source
	limit := v.p.IntOption("max-length")
	if f == nil || limit <= 0 {
		return
	}
	for line := uint32(1); line <= f.LineCount(); line++ {
		sp := f.LineSpan(line)
		text := string(f.Content[sp.Start:sp.End])
		width, cut := 0, -1
		for i, r := range text {
			w := 1
			if r != '\t' && r != utf8.RuneError {
				w = runewidth.RuneWidth(r)
			}
			width += w
			if cut < 0 && width > limit {
				cut = i
			}
		}
		if cut < 0 {
			continue
		}
		over := source.Span{File: sp.File, Start: sp.Start + uint32(cut), End: sp.End}
		v.p.Report(over, fmt.Sprintf("line is %d columns wide, limit is %d", width, limit))
	}
}

// FoldBalance: ;FOLD and ;ENDFOLD markers must pair up.
type FoldBalance struct{}

func (FoldBalance) Meta() Meta {
	return Meta{
		Code:            diag.KrlFoldBalance,
		Name:            "fold-balance",
		Description:     ";FOLD without ;ENDFOLD or the other way round",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (FoldBalance) NewVisitor(p *Pass) Visitor { return &foldBalance{p: p} }

type foldBalance struct {
	BaseVisitor
	p *Pass
}

func (v *foldBalance) Finish() {
	var open []source.Span
	for _, tok := range v.p.Tokens {
		for _, tr := range tok.Leading {
			switch tr.Kind {
			case token.TriviaFold:
				open = append(open, tr.Span)
			case token.TriviaEndFold:
				if len(open) == 0 {
					v.p.Report(tr.Span, ";ENDFOLD without matching ;FOLD")
					continue
				}
				open = open[:len(open)-1]
			}
		}
	}
	for _, sp := range open {
		v.p.Report(sp, ";FOLD is never closed by ;ENDFOLD")
	}
}
