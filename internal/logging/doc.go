// Package logging builds the slog loggers used across aria and provides
// small attribute helpers so call sites stay terse.
//
// Components obtain a child logger via NewComponentLogger, which stamps every
// record with a "component" attribute. Tests use NewNop.
package logging
