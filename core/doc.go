// Package core contains the domain contracts shared across CallMesh: the
// CallSession record, the CallTracker interface implemented by concrete
// trackers, and conversation id generation. Keeping the contracts here lets
// higher level packages (telephony, agent, monitor) depend on the interface
// without coupling to a concrete tracker implementation.
package core
