// Package lint runs KRL rules over a parsed file.
//
// A Rule describes itself with Meta and creates one Visitor per file. The
// engine walks the tree once and hands every node to all visitors; each
// visitor reports into its own bag, so rules never see each other's output
// and their order does not change the result.
package lint
