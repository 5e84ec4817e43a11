// Package dderror classifies failures from the Datadog API and the local
// transport into the application's sentinel error kinds.
package dderror
