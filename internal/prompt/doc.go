// Package prompt walks a user through describing new fields on the terminal
// and returns validated descriptors.
package prompt
