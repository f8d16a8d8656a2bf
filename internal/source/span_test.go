package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
}

func TestSpanHelpers(t *testing.T) {
	s := Span{File: 0, Start: 3, End: 9}
	if s.Empty() || s.Len() != 6 {
		t.Errorf("Empty/Len wrong for %v", s)
	}
	if !s.ZeroideToEnd().Empty() || s.ZeroideToEnd().Start != 9 {
		t.Errorf("ZeroideToEnd = %v", s.ZeroideToEnd())
	}
	if s.ZeroideToStart().End != 3 {
		t.Errorf("ZeroideToStart = %v", s.ZeroideToStart())
	}
	if !s.Contains(Span{Start: 4, End: 9}) || s.Contains(Span{Start: 2, End: 4}) {
		t.Error("Contains")
	}
	if s.ShiftRight(2) != (Span{Start: 5, End: 11}) {
		t.Errorf("ShiftRight = %v", s.ShiftRight(2))
	}
	if s.String() != "0:3-9" {
		t.Errorf("String = %q", s.String())
	}
}
