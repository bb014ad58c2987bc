package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-seqview/internal/record"
)

func TestBuildDetailViews_OrderPreservation(t *testing.T) {
	r := fusionRecord(t)
	c := NewCompositor()

	var reqs []DetailRequest
	for i := 0; i < 200; i++ {
		start := i * 4
		reqs = append(reqs, DetailRequest{
			WindowStart: start, WindowEnd: start + 30,
			TranslationStart: start + 3, TranslationEnd: start + 27,
		})
	}

	results := c.BuildDetailViews(r, reqs, 8)
	require.Len(t, results, 200)
	for i, res := range results {
		assert.Equal(t, i, res.Seq, "result %d out of order", i)
		require.NoError(t, res.Err)
		assert.Equal(t, reqs[i], res.Request)
		assert.Equal(t, reqs[i].WindowStart, res.View.WindowStart)
		assert.Equal(t, TranslationWindow{Start: 3, End: 27}, res.View.Translation)
	}
}

func TestBuildDetailViews_ErrorsDoNotAbort(t *testing.T) {
	r := fusionRecord(t)
	c := NewCompositor()

	reqs := []DetailRequest{
		{WindowStart: 398, WindowEnd: 428, TranslationStart: 408, TranslationEnd: 423},
		{WindowStart: 990, WindowEnd: 1010, TranslationStart: 995, TranslationEnd: 1000},
		{WindowStart: 398, WindowEnd: 428, TranslationStart: 300, TranslationEnd: 423},
		{WindowStart: 600, WindowEnd: 630, TranslationStart: 600, TranslationEnd: 630},
	}

	results := c.BuildDetailViews(r, reqs, 2)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)

	var re *record.InvalidRangeError
	assert.True(t, errors.As(results[1].Err, &re))
	assert.Nil(t, results[1].View)

	var te *InvalidTranslationWindowError
	assert.True(t, errors.As(results[2].Err, &te))

	require.NoError(t, results[3].Err)
	assert.Equal(t, 2, results[3].View.Crop.FeatureCount())
}

func TestBuildDetailViews_DefaultWorkers(t *testing.T) {
	r := fusionRecord(t)
	results := NewCompositor().BuildDetailViews(r, []DetailRequest{
		{WindowStart: 0, WindowEnd: 10, TranslationStart: 0, TranslationEnd: 9},
	}, 0)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestBuildDetailViews_Empty(t *testing.T) {
	assert.Empty(t, NewCompositor().BuildDetailViews(fusionRecord(t), nil, 4))
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	results := make(chan DetailResult, 3)
	results <- DetailResult{Seq: 1}
	results <- DetailResult{Seq: 0}
	results <- DetailResult{Seq: 2}
	close(results)

	var seen []int
	stop := errors.New("stop")
	err := orderedCollect(results, func(r DetailResult) error {
		seen = append(seen, r.Seq)
		if r.Seq == 1 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []int{0, 1}, seen)
}
