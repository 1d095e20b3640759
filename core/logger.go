package core

// Logger is any leveled logging service.
//
// Implementations may inspect args for well-known types (errors get stack
// traces, Person gets attached to the report) and must tolerate any other
// value.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the learner an error report concerns.
type Person struct {
	ID    string
	Name  string
	Email string
}
