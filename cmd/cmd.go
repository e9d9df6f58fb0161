/*
Package cmd provides functionality common to the rawlink binaries.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// PrintError prints an error to stderr.
func PrintError(err error) {
	printError(os.Stderr, err)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", color.HiRedString("Error:"), err.Error())
}
