package batch

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SecondItemFails(t *testing.T) {
	items := []string{"url-1", "url-2", "url-3"}
	var processed []string

	results := Run(context.Background(), items, func(ctx context.Context, item string) Result {
		processed = append(processed, item)
		if item == "url-2" {
			return Result{Key: item, Error: errors.New("video unavailable")}
		}
		return Result{Key: item, Target: item + ".vtt"}
	})

	// One bad item does not abort the remaining items
	assert.Equal(t, items, processed)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Error)
	assert.Equal(t, "url-1.vtt", results[0].Target)
	assert.Error(t, results[1].Error)
	assert.Empty(t, results[1].Target)
	assert.NoError(t, results[2].Error)

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "url-2", failed[0].Key)
}

func TestRun_Sequential(t *testing.T) {
	var order []string
	Run(context.Background(), []string{"a", "b", "c"}, func(ctx context.Context, item string) Result {
		order = append(order, item)
		return Result{Key: item}
	})
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, []string{"a", "b"}, func(ctx context.Context, item string) Result {
		t.Fatal("item processed despite cancelled context")
		return Result{}
	})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
}

func TestFailed_Empty(t *testing.T) {
	assert.Empty(t, Failed([]Result{{Key: "a"}, {Key: "b"}}))
}
