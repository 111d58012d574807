// Package rge provides core primitives for renormalization group running.
//
// The package defines the fundamental interfaces and types for numerical
// integration of coupled RGE systems (dX/dt = beta(X), t = ln(mu/mu_ref)):
//
//   - [State]: vector of running couplings at one scale point
//   - [System]: interface for beta-function systems
//   - [Stepper]: numerical integrator interface
//   - [Grid]: scale sample-point strategy
//   - [Runner]: orchestrates one upward integration
//
// # Example
//
//	model := mssm.New(mssm.DefaultInputs())
//	runner := rge.New(model, integrators.NewRK45())
//	result, _ := runner.Run(ctx, x0, grid, cfg)
//
// # Thread Safety
//
// Runner instances are NOT thread-safe. Beta functions are pure, so
// separate Runner instances may integrate different scenarios in parallel.
package rge
