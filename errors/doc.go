/*
Package errors implements custom error interfaces for the framework.

The idea is to reuse as many errors from this package as possible and declare
a new error type only when necessary.

Errors should be wrapped with additional context before being returned. Use
`Wrap` or the root error `New` method to create an error with context. Use the
root error `Is` method to test an error category regardless of how many times
it was wrapped.
*/
package errors
