// Package prompt asks the operator for confirmation, interactively on a
// terminal and line based otherwise.
package prompt
