// Package fuzztests houses Go fuzz harnesses for the input-facing parts of
// docket: the comment markup parser and the unit decoder. They guard
// against panics and hangs on arbitrary input.
//
// Назначение: прогонять произвольные байты через markup.Parse и unit.Build.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
