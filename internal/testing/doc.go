// Package testing provides shared test doubles and fixtures.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - MockAPI: testify mock of the control plane API
//   - MockKube: testify mock of the Kubernetes client
//   - MockExecutor: testify mock of the helm executor
//   - StateBuilder: fluent builder for v1.State values
//
// Usage:
//
//	api := &testing.MockAPI{}
//	api.On("GetState", mock.Anything, v1.StateName("alfa")).
//	    Return(testing.NewState("alfa").WithAWS("us-east-1", v1.LocationOK).Build(), nil)
package testing
