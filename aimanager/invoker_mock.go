package aimanager

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockInvoker struct {
	mock.Mock
}

// Ensure MockInvoker implements Invoker
var _ Invoker = (*MockInvoker)(nil)

func NewMockInvoker() *MockInvoker {
	return &MockInvoker{}
}

func (m *MockInvoker) Invoke(ctx context.Context, prompt string, model string, opts Options) (string, error) {
	args := m.Called(ctx, prompt, model, opts)
	return args.String(0), args.Error(1)
}
