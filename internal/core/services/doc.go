// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Every driven port they accept other
// than the normaliser registry and the stores it needs is optional.
package services
