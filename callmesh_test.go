package callmesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/callmesh/model"
)

type mockModel struct{ mock.Mock }

func (m *mockModel) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Response), args.Error(1)
}

func (m *mockModel) Info() model.Info { return model.Info{Name: "mock", Provider: "test"} }

func TestCallMesh_PlaceCallLifecycle(t *testing.T) {
	mesh := New()

	call, err := mesh.PlaceCall(context.Background(), "+1555", "+1777")
	require.NoError(t, err)

	status, ok := mesh.CallStatus(call.ConversationID())
	require.True(t, ok)
	assert.Equal(t, "+1555", status.ToPhone)
	assert.False(t, status.AgentStarted)
	assert.Len(t, mesh.ActiveCalls(), 1)

	s, err := call.End(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.Ended())
	assert.Empty(t, mesh.ActiveCalls())

	_, ok = mesh.CallStatus(call.ConversationID())
	assert.False(t, ok)
}

func TestCallMesh_AgentRunnerMarksStart(t *testing.T) {
	mesh := New()

	llm := &mockModel{}
	llm.On("Generate", mock.Anything, mock.Anything).Return(model.Response{Text: "hello!"}, nil)
	runner := mesh.NewAgentRunner(llm, "You are making a test call.")

	call, err := mesh.PlaceCall(context.Background(), "+1555", "+1777")
	require.NoError(t, err)

	reply, err := runner.Respond(context.Background(), call.ConversationID(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello!", reply)

	s, err := call.End(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.AgentStarted)
	_, hasAgent := s.AgentDuration()
	assert.True(t, hasAgent)
}
