// Package helm installs the charts a registered cluster declares.
//
// [BuildCommands] turns the cluster record into one install command per
// chart. An [Executor] then either runs them with the helm binary, installs
// them in-process with the Helm SDK, or prints them for the operator to run
// by hand when helm is not available. All executors return one [Result] per
// command and never stop at the first failure.
package helm
