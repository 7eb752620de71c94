// Package logger holds the logger shared by the word list reader, the
// snapshot stores and the example command. Logging is off by default.
package logger

import (
	"io"
	"log"
)

// StdLogger is satisfied by *log.Logger.
type StdLogger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Logger discards everything until SetLogger is called.
var Logger StdLogger = log.New(io.Discard, "[trie] ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(l StdLogger) {
	Logger = l
}
