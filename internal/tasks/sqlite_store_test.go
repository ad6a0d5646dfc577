package tasks

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	t.Parallel()

	for _, factory := range storeFactories() {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := factory.open(t)

			first := Task{ID: "task_one", Title: "Initialize frontend", DueDate: "2025-11", Priority: PriorityHigh}
			second := Task{ID: "task_two", Title: "Write docs", Description: "README", Priority: PriorityLow}

			require.NoError(t, store.CreateTask(ctx, first))
			require.NoError(t, store.CreateTask(ctx, second))
			require.ErrorIs(t, store.CreateTask(ctx, first), ErrDuplicateTaskID)

			got, found, err := store.GetTask(ctx, "task_one")
			require.NoError(t, err)
			require.True(t, found)
			if diff := cmp.Diff(first, got); diff != "" {
				t.Fatalf("GetTask mismatch (-want +got):\n%s", diff)
			}

			_, found, err = store.GetTask(ctx, "missing")
			require.NoError(t, err)
			require.False(t, found)

			changed, err := store.SetCompleted(ctx, "task_two", true)
			require.NoError(t, err)
			require.True(t, changed)

			changed, err = store.SetCompleted(ctx, "missing", true)
			require.NoError(t, err)
			require.False(t, changed)

			all, err := store.ListTasks(ctx)
			require.NoError(t, err)
			second.IsCompleted = true
			if diff := cmp.Diff([]Task{first, second}, all); diff != "" {
				t.Fatalf("ListTasks mismatch (-want +got):\n%s", diff)
			}

			deleted, err := store.DeleteTask(ctx, "task_one")
			require.NoError(t, err)
			require.True(t, deleted)

			deleted, err = store.DeleteTask(ctx, "task_one")
			require.NoError(t, err)
			require.False(t, deleted)

			all, err = store.ListTasks(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff([]Task{second}, all); diff != "" {
				t.Fatalf("ListTasks after delete mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreKeepsOrderAfterMiddleDelete(t *testing.T) {
	t.Parallel()

	for _, factory := range storeFactories() {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := factory.open(t)
			for _, id := range []string{"a", "b", "c", "d"} {
				require.NoError(t, store.CreateTask(ctx, Task{ID: id, Title: id, Priority: PriorityMedium}))
			}

			_, err := store.DeleteTask(ctx, "b")
			require.NoError(t, err)
			require.NoError(t, store.CreateTask(ctx, Task{ID: "e", Title: "e", Priority: PriorityMedium}))

			changed, err := store.SetCompleted(ctx, "d", true)
			require.NoError(t, err)
			require.True(t, changed)

			all, err := store.ListTasks(ctx)
			require.NoError(t, err)

			ids := make([]string, 0, len(all))
			for _, task := range all {
				ids = append(ids, task.ID)
			}
			require.Equal(t, []string{"a", "c", "d", "e"}, ids)
			require.True(t, all[2].IsCompleted)
		})
	}
}

func TestSQLiteStoreServiceScenario(t *testing.T) {
	t.Parallel()

	h := newSQLiteTestHarness(t)

	low, err := h.Service.AddTask(h.Ctx, NewTask{Title: "A", Priority: PriorityLow})
	require.NoError(t, err)
	high, err := h.Service.AddTask(h.Ctx, NewTask{Title: "B", Priority: PriorityHigh})
	require.NoError(t, err)

	require.NoError(t, h.Service.ToggleCompleteState(h.Ctx, high.ID))
	require.NoError(t, h.Service.UpdateFilter(FilterHigh))

	selected, err := h.Service.SelectTasks(h.Ctx)
	require.NoError(t, err)
	high.IsCompleted = true
	if diff := cmp.Diff([]Task{high}, selected); diff != "" {
		t.Fatalf("unexpected filtered tasks (-want +got):\n%s", diff)
	}

	require.NoError(t, h.Service.DeleteTask(h.Ctx, low.ID))
	require.NoError(t, h.Service.DeleteTask(h.Ctx, low.ID))

	stored, found, err := h.Store.GetTask(h.Ctx, low.ID)
	require.NoError(t, err)
	require.False(t, found, "deleted task still present: %#v", stored)
}

func TestSQLiteStoreCountByPriority(t *testing.T) {
	t.Parallel()

	h := newSQLiteTestHarness(t)
	for i, p := range []Priority{PriorityHigh, PriorityLow, PriorityHigh} {
		require.NoError(t, h.Store.CreateTask(h.Ctx, Task{ID: string(rune('a' + i)), Title: "t", Priority: p}))
	}

	counts, err := h.Store.CountByPriority(h.Ctx)
	require.NoError(t, err)
	require.Equal(t, map[Priority]int{PriorityHigh: 2, PriorityLow: 1}, counts)

	summary, err := h.Service.Summary(h.Ctx)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 2, summary.Count(PriorityHigh))
	require.Equal(t, 0, summary.Count(PriorityMedium))
}

func TestSQLiteStoresAreIsolated(t *testing.T) {
	t.Parallel()

	first := newSQLiteTestHarness(t)
	second := newSQLiteTestHarness(t)

	_, err := first.Service.AddTask(first.Ctx, NewTask{Title: "only in first", Priority: PriorityLow})
	require.NoError(t, err)

	all, err := second.Store.ListTasks(second.Ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
