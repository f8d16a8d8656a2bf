// Package token defines lexical token kinds and trivia for KRL sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Keywords are case-insensitive; Text keeps the spelling found in the file.
//   - Newlines are significant in KRL and are real tokens, not trivia.
//   - Comments (including ;FOLD / ;ENDFOLD markers) are leading Trivia and
//     never appear in the main token stream.
//   - System variables ($OV_PRO, $IN[1]) are identifiers.
package token
