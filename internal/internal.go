// Package internal is code only for consumption from within the rawlink
// project.
package internal
