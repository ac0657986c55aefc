package printing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(nil)

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultStartupTimeout, r.config.StartupTimeout)
	assert.Equal(t, defaultMarginMM, r.config.MarginMM)
	assert.Equal(t, defaultScale, r.config.Scale)
	assert.NotNil(t, r.logger)
	// The browser must not be launched until the first render
	assert.Nil(t, r.browser)
}

// fakeLauncher substitutes a live Chrome process with a plain cancellable
// context so backend lifecycle rules can be exercised hermetically.
type fakeLauncher struct {
	mu       sync.Mutex
	launches int
	fail     bool
}

func (f *fakeLauncher) launch() (*browserHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches++
	if f.fail {
		return nil, NewRenderError(ErrCodeBackendUnavailable, "failed to start chrome", nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &browserHandle{ctx: ctx, cancel: cancel, allocCancel: func() {}}, nil
}

func (f *fakeLauncher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launches
}

func TestChromedpRenderer_SingleFlightStartup(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()
	fake := &fakeLauncher{}
	r.launch = fake.launch

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, err := r.acquireBrowser()
			assert.NoError(t, err)
			assert.NotNil(t, ctx)
		}()
	}
	wg.Wait()

	// All concurrent first callers share the one launch attempt
	assert.Equal(t, 1, fake.count())
}

func TestChromedpRenderer_RelaunchAfterBackendDeath(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()
	fake := &fakeLauncher{}
	r.launch = fake.launch

	first, err := r.acquireBrowser()
	require.NoError(t, err)

	// A healthy backend is reused, not relaunched
	again, err := r.acquireBrowser()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, fake.count())

	// Kill the backend; the next acquisition relaunches
	r.restart()
	replacement, err := r.acquireBrowser()
	require.NoError(t, err)
	assert.Error(t, first.Err())
	assert.NoError(t, replacement.Err())
	assert.Equal(t, 2, fake.count())
}

func TestChromedpRenderer_DeadContextTriggersRelaunch(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()
	fake := &fakeLauncher{}
	r.launch = fake.launch

	first, err := r.acquireBrowser()
	require.NoError(t, err)

	// Simulate the Chrome process dying out from under us
	r.mu.Lock()
	r.browser.cancel()
	r.mu.Unlock()
	require.Error(t, first.Err())

	replacement, err := r.acquireBrowser()
	require.NoError(t, err)
	assert.NoError(t, replacement.Err())
	assert.Equal(t, 2, fake.count())
}

func TestChromedpRenderer_StartupFailureDoesNotWedge(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()
	fake := &fakeLauncher{fail: true}
	r.launch = fake.launch

	_, err := r.acquireBrowser()
	require.Error(t, err)
	re, ok := err.(*RenderError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeBackendUnavailable, re.Code)

	// A later attempt retries the launch rather than sticking to the failure
	fake.fail = false
	ctx, err := r.acquireBrowser()
	require.NoError(t, err)
	assert.NotNil(t, ctx)
	assert.Equal(t, 2, fake.count())
}

func TestChromedpRenderer_CloseReleasesBackend(t *testing.T) {
	r := NewChromedpRenderer(nil)
	fake := &fakeLauncher{}
	r.launch = fake.launch

	ctx, err := r.acquireBrowser()
	require.NoError(t, err)

	require.NoError(t, r.Close())
	assert.Error(t, ctx.Err())

	_, err = r.acquireBrowser()
	require.Error(t, err)
	re, ok := err.(*RenderError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeBackendUnavailable, re.Code)
	assert.Equal(t, 1, fake.count())
}

func TestChromedpRenderer_RenderValidation(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()

	t.Run("nil request", func(t *testing.T) {
		_, err := r.Render(context.Background(), nil)
		require.Error(t, err)
		re, ok := err.(*RenderError)
		require.True(t, ok)
		assert.Equal(t, ErrCodeInvalidHTML, re.Code)
	})

	t.Run("empty HTML", func(t *testing.T) {
		_, err := r.Render(context.Background(), &RenderRequest{HTML: "   \n  "})
		require.Error(t, err)
		re, ok := err.(*RenderError)
		require.True(t, ok)
		assert.Equal(t, ErrCodeInvalidHTML, re.Code)
	})
}

func TestChromedpRenderer_Close(t *testing.T) {
	r := NewChromedpRenderer(nil)

	t.Run("close without launch", func(t *testing.T) {
		assert.NoError(t, r.Close())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		assert.NoError(t, r.Close())
		assert.NoError(t, r.Close())
	})

	t.Run("render after close is rejected", func(t *testing.T) {
		_, err := r.Render(context.Background(), &RenderRequest{HTML: "<html></html>"})
		require.Error(t, err)
		re, ok := err.(*RenderError)
		require.True(t, ok)
		assert.Equal(t, ErrCodeBackendUnavailable, re.Code)
	})
}

func TestBuildPrintParams_A4Defaults(t *testing.T) {
	r := NewChromedpRenderer(nil)
	defer r.Close()

	params := r.buildPrintParams(&RenderRequest{HTML: "<html>test</html>"})

	// A4 is 210mm x 297mm
	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(defaultMarginMM), params.margin, 0.001)
	assert.Equal(t, 1.0, params.scale)
	assert.False(t, params.landscape)
}

func TestBuildPrintParams_Overrides(t *testing.T) {
	r := NewChromedpRenderer(&ChromedpConfig{MarginMM: 20})
	defer r.Close()

	t.Run("config margin", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{HTML: "x"})
		assert.InDelta(t, mmToInches(20), params.margin, 0.001)
	})

	t.Run("request margin wins", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{HTML: "x", MarginMM: 5})
		assert.InDelta(t, mmToInches(5), params.margin, 0.001)
	})

	t.Run("landscape", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{HTML: "x", Landscape: true})
		assert.True(t, params.landscape)
	})
}

func TestMmToInches(t *testing.T) {
	tests := []struct {
		mm       float64
		expected float64
	}{
		{0, 0},
		{25.4, 1.0},
		{50.8, 2.0},
		{210, 8.2677},  // A4 width
		{297, 11.6929}, // A4 height
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, mmToInches(tt.mm), 0.001)
	}
}

func TestEstimatePageCount(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		pdf := []byte("%PDF-1.4 /Type /Pages /Type /Page trailer")
		assert.Equal(t, 1, estimatePageCount(pdf))
	})

	t.Run("three pages", func(t *testing.T) {
		pdf := []byte("%PDF-1.4 /Type /Pages /Type /Page /Type /Page /Type /Page")
		assert.Equal(t, 3, estimatePageCount(pdf))
	})

	t.Run("never below one", func(t *testing.T) {
		assert.Equal(t, 1, estimatePageCount([]byte("not a pdf")))
	})
}

func TestRenderError(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewRenderError(ErrCodeRenderTimeout, "PDF rendering timed out after 30s", cause)

	assert.Contains(t, err.Error(), "timed out")
	assert.Contains(t, err.Error(), cause.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRenderTimeout(err))
	assert.False(t, IsRenderTimeout(NewRenderError(ErrCodeRenderFailed, "boom", nil)))
}

func TestRenderRequest_TimeoutDefault(t *testing.T) {
	// The zero Timeout means the renderer falls back to its configured default.
	r := NewChromedpRenderer(&ChromedpConfig{DefaultTimeout: 5 * time.Second})
	defer r.Close()

	assert.Equal(t, 5*time.Second, r.config.DefaultTimeout)
}
