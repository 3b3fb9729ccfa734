// Package agent contains the conversation runner that produces assistant
// turns for live calls via a pluggable model.Model. The runner owns the
// per-conversation transcript and notifies the call tracker when it begins its
// first operation on a conversation, which marks the end of call-setup
// latency. It deliberately carries no dialog policy of its own; deciding what
// the agent says is the model's job.
package agent
