// Package v1 contains the wire types of the statehub management API (v0 REST
// endpoints): states, clusters, volumes and the error envelope.
package v1
