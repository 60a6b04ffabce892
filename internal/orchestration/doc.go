// Package orchestration provides the cluster registration and
// unregistration workflows.
//
// # Registration
//
// The Registrar executes the following steps in order:
//  1. resolve-name - explicit name or the kubeconfig context name
//  2. discover-locations - regions of the cluster nodes
//  3. resolve-provider - explicit provider or detection from node labels
//  4. register-cluster - create the cluster record
//  5. extend-states - make the named states available in the cluster locations
//  6. prepare-namespace - get or create the target namespace
//  7. store-token - issue a cluster token and store it as a secret
//  8. store-configmap - store the cluster configmap
//  9. install-helm - install the charts declared on the cluster record
//  10. claim-ownership - become the owner of unowned named states
//
// Steps 1 to 4 are prerequisites and stop the workflow on failure. Later
// steps are not rolled back when a following step fails; every step is
// safe to repeat, and a receipt of completed steps lets a retry skip them.
// Register always returns a Report describing every step.
//
// # Unregistration
//
// RelinquishAndUnregister releases every state owned by the cluster before
// deleting the cluster record.
package orchestration
