// Package telephony contains the outbound call controller that owns the call
// lifecycle against the tracker: it begins tracking when dialing starts and
// guarantees the session is ended on both the success and the failure path.
// Actual call placement sits behind the Dialer interface; the shipped
// SimulatedDialer performs no signaling, real providers are supplied by the
// application.
package telephony
