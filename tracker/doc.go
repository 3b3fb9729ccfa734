// Package tracker houses concrete implementations of the core.CallTracker.
// The interface itself (and the CallSession struct) live in the core package
// to centralize domain contracts. Keeping only implementations here prevents
// higher level packages (telephony, agent, monitor) from depending on concrete
// storage.
//
// Add additional backends in sub-packages without changing any calling code –
// only the wiring layer needs to decide which implementation to instantiate.
package tracker
