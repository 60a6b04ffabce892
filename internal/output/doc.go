// Package output renders command results as styled text or as JSON.
package output
