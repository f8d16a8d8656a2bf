// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser -> rules). They check that arbitrary bytes
// never panic and never make the pipeline loop forever.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
