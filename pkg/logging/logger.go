package logging

import (
	"log"
	"os"
)

var (
	InfoLogger      *log.Logger
	ErrorLogger     *log.Logger
	ReconcileLogger *log.Logger
)

// InitLogging initializes logging
func InitLogging() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	ReconcileLogger = log.New(os.Stderr, "RECONCILE: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Infof logs info level messages
func Infof(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	}
}

// Errorf logs error level messages
func Errorf(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf(format, v...)
	}
}

// Reconcilef logs failures that happened after a billing write already landed.
// The user already got premium; an operator has to reconcile the ledger or
// commission by hand, so these get their own prefix apart from ordinary errors.
func Reconcilef(format string, v ...interface{}) {
	if ReconcileLogger != nil {
		ReconcileLogger.Printf(format, v...)
	}
}
