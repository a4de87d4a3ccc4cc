// Package ciutil detects CI environments and resolves the database URL used
// by integration tests. Values that may carry credentials are masked before
// they are logged.
package ciutil
