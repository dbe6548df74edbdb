package state

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(inmemory.NewSessionStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUpdateMergesAndDeletes(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	require.NoError(t, m.Update(ctx, 1, domain.StateFields{domain.StateStep: "title", domain.StateAddingProduct: true}))
	require.NoError(t, m.Update(ctx, 1, domain.StateFields{domain.StateStep: "price"}))

	bag, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "price", bag.String(domain.StateStep))
	assert.True(t, bag.Bool(domain.StateAddingProduct))

	require.NoError(t, m.Update(ctx, 1, domain.StateFields{domain.StateAddingProduct: nil}))
	bag, _ = m.Get(ctx, 1)
	assert.False(t, bag.Has(domain.StateAddingProduct))
}

func TestResetKeepsWhitelist(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	require.NoError(t, m.Update(ctx, 1, domain.StateFields{domain.StateLang: "fr", domain.StateStep: "title"}))

	require.NoError(t, m.Reset(ctx, 1, domain.StateLang))
	bag, _ := m.Get(ctx, 1)
	assert.Equal(t, "fr", bag.String(domain.StateLang))
	assert.False(t, bag.Has(domain.StateStep))

	require.NoError(t, m.Reset(ctx, 1))
	bag, _ = m.Get(ctx, 1)
	assert.Empty(t, bag)
}

// Какой бы ни была последовательность вызовов, keep остаётся, а остальные
// конфликтующие флаги исчезают
func TestResetConflictingProperty(t *testing.T) {
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		m := newManager()
		keys := append([]string(nil), domain.ConflictingStateKeys...)
		rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

		for _, k := range keys {
			require.NoError(t, m.Update(ctx, 9, domain.StateFields{k: true}))
		}
		require.NoError(t, m.Update(ctx, 9, domain.StateFields{domain.StateLastMenuMessage: 77}))

		keep := keys[rnd.Intn(len(keys))]
		require.NoError(t, m.ResetConflicting(ctx, 9, keep))

		bag, err := m.Get(ctx, 9)
		require.NoError(t, err)
		assert.True(t, bag.Has(keep), "kept key %s", keep)
		for _, k := range domain.ConflictingStateKeys {
			if k != keep {
				assert.False(t, bag.Has(k), "key %s should be removed", k)
			}
		}
		assert.Equal(t, int64(77), bag.Int64(domain.StateLastMenuMessage), "non-conflicting keys survive")
	}
}

func TestStartFlowReplacesPreviousWizard(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	require.NoError(t, m.StartFlow(ctx, 3, domain.FlowSellerOnboarding, domain.StepSellerEmail, domain.StateFields{domain.StateWaitingForEmail: true}))
	require.NoError(t, m.StartFlow(ctx, 3, domain.FlowAddProduct, domain.StepTitle, domain.StateFields{
		domain.StateAddingProduct: true,
		domain.StateProductData:   domain.ProductDraft{},
	}))

	bag, _ := m.Get(ctx, 3)
	assert.Equal(t, domain.FlowAddProduct, bag.Flow())
	assert.Equal(t, domain.StepTitle, bag.Step())
	assert.False(t, bag.Has(domain.StateWaitingForEmail))

	require.NoError(t, m.SetStep(ctx, 3, domain.StepDescription, domain.StateFields{
		domain.StateProductData: domain.ProductDraft{Title: "Intro to Python"},
	}))
	bag, _ = m.Get(ctx, 3)
	draft, err := Draft(bag)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Python", draft.Title)
	assert.Equal(t, domain.StepDescription, bag.Step())

	require.NoError(t, m.FinishFlow(ctx, 3))
	bag, _ = m.Get(ctx, 3)
	assert.Equal(t, domain.FlowNone, bag.Flow())
}

func TestConcurrentUpdatesDoNotLoseKeys(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Update(ctx, 5, domain.StateFields{string(rune('a' + i)): i})
		}(i)
	}
	wg.Wait()

	bag, err := m.Get(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, bag, 20)
}
