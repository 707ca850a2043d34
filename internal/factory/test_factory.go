package factory

import (
	"time"

	"github.com/mcoot/matchengine-go/internal/dependencies/mocks"
	"github.com/mcoot/matchengine-go/internal/engine"
	"github.com/mcoot/matchengine-go/internal/storage/memory"
	"github.com/mcoot/matchengine-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() (*TestApp, error) {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app, err := newWithDependencies(store, mockClock, mockRandom,
		engine.DefaultConfig(), DefaultSweepInterval, testutil.NopLogger())
	if err != nil {
		return nil, err
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}, nil
}
