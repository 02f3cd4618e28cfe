// Package fuzztests houses Go fuzz harnesses for the LU pipeline
// (source -> lexer -> parser -> lufile edits). They guard against panics
// and hangs on arbitrary input and check span bookkeeping.
//
// Назначение: прогонять произвольные байты через лексер, парсер и
// операции редактирования и проверять инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
