// Package receipt persists which registration steps completed for a
// cluster, so an interrupted register-cluster can be resumed.
//
// Receipts are small YAML documents kept either in a local directory
// ([FileStore]) or in an S3 bucket ([S3Store]).
package receipt
