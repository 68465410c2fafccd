package llmclient

import "context"

// MockClient is a scriptable in-memory Client for deterministic tests: each
// call pops the next queued response, or returns Err if set.
type MockClient struct {
	Responses []string
	Err       error
	Calls     []string
}

// NewMockClient returns a MockClient that yields responses in order.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{Responses: responses}
}

func (m *MockClient) next(call string) (string, error) {
	m.Calls = append(m.Calls, call)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return resp, nil
}

func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	return m.next("complete:" + prompt)
}

func (m *MockClient) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	return m.next("chat")
}

func (m *MockClient) StructuredChat(ctx context.Context, messages []ChatMessage) (string, error) {
	return m.next("structured_chat")
}

func (m *MockClient) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	resp, err := m.next("stream:" + prompt)
	if err != nil {
		return nil, err
	}
	ch := make(chan string, 1)
	if resp != "" {
		ch <- resp
	}
	close(ch)
	return ch, nil
}

var _ Client = (*MockClient)(nil)
