package scrollbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestNavigator builds a navigator over a fully measured engine: items of
// uniform height 4, viewport height 10.
func newTestNavigator(t *testing.T, count int, opts ...NavOption) (*Navigator, *Engine) {
	t.Helper()

	e := New()
	e.SetItems(makeItems(count))
	e.SetViewportSize(Size{Width: 80, Height: 10})
	for i := 0; i < count; i++ {
		e.ReportItemHeight(i, 4)
	}
	return NewNavigator(e, opts...), e
}

func TestNavigator_SetDefaultAlign(t *testing.T) {
	nav, e := newTestNavigator(t, 20)

	nav.SetDefaultAlign(AlignCenter)
	require.Equal(t, AlignCenter, nav.DefaultAlign())

	// Item 10 spans rows 40..43; centering in a 10-row viewport puts the
	// offset at 40 + 2 - 5.
	nav.Select(10)
	nav.Flush()
	require.Equal(t, 37, e.ScrollOffset())
}

func TestNavigator_NothingSelectedInitially(t *testing.T) {
	n, _ := newTestNavigator(t, 5)

	require.Equal(t, -1, n.SelectedIndex())
	require.False(t, n.IsSelectedVisible())
}

func TestNavigator_SelectClampsIndex(t *testing.T) {
	n, _ := newTestNavigator(t, 5)

	require.Equal(t, 0, n.Select(-3))
	require.Equal(t, 4, n.Select(99))
	require.Equal(t, 2, n.Select(2))
}

func TestNavigator_SelectOnEmptySequenceClears(t *testing.T) {
	n, e := newTestNavigator(t, 3)
	n.Select(2)

	e.SetItems(nil)
	require.Equal(t, -1, n.Select(1))
	require.Equal(t, -1, n.SelectedIndex())
}

func TestNavigator_SelectNextStopsAtLast(t *testing.T) {
	n, _ := newTestNavigator(t, 3)
	n.Select(2)

	require.Equal(t, 2, n.SelectNext(), "SelectNext at the last index is a no-op")
	require.Equal(t, 2, n.SelectedIndex())
}

func TestNavigator_SelectPreviousStopsAtFirst(t *testing.T) {
	n, _ := newTestNavigator(t, 3)
	n.Select(0)

	require.Equal(t, 0, n.SelectPrevious(), "SelectPrevious at index 0 is a no-op")
}

func TestNavigator_SelectionChangedFiresOncePerChange(t *testing.T) {
	var changes []int
	n, _ := newTestNavigator(t, 5, WithSelectionChanged(func(index int) {
		changes = append(changes, index)
	}))

	n.Select(2)
	n.Select(2)
	n.SelectNext()

	require.Equal(t, []int{2, 3}, changes)
}

// =========================================================================
// Deferred scroll-into-view
// =========================================================================

func TestNavigator_ScrollIsDeferredUntilFlush(t *testing.T) {
	n, e := newTestNavigator(t, 20) // content 80, viewport 10

	n.Select(10) // item rows 40..43, well below the viewport

	require.Equal(t, 10, n.SelectedIndex(), "selection state changes synchronously")
	require.Equal(t, 0, e.ScrollOffset(), "scrolling waits for the next layout pass")

	n.Flush()
	require.Equal(t, 34, e.ScrollOffset(), "auto alignment puts the item's bottom at the viewport's bottom")
}

func TestNavigator_FlushDrainsQueueOnce(t *testing.T) {
	n, e := newTestNavigator(t, 20)
	n.Select(10)
	n.Flush()

	e.ScrollTo(0)
	n.Flush()

	require.Equal(t, 0, e.ScrollOffset(), "a drained queue must not re-run old adjustments")
}

func TestNavigator_CustomSchedulerCapturesContinuation(t *testing.T) {
	var pending []func()
	n, e := newTestNavigator(t, 20, WithScheduler(func(fn func()) {
		pending = append(pending, fn)
	}))

	n.Select(10)
	require.Equal(t, 0, e.ScrollOffset())
	require.Len(t, pending, 1)

	pending[0]()
	require.Equal(t, 34, e.ScrollOffset())
}

func TestNavigator_DeferredScrollSeesLateMeasurement(t *testing.T) {
	e := New()
	e.SetItems(makeItems(10))
	e.SetViewportSize(Size{Width: 80, Height: 10})
	n := NewNavigator(e)

	// Selection lands before any heights are known. The adjustment runs at
	// flush time against geometry measured in between.
	n.Select(9)
	for i := 0; i < 10; i++ {
		e.ReportItemHeight(i, 4)
	}
	n.Flush()

	require.Equal(t, 30, e.ScrollOffset(), "item 9 (rows 36..39) aligned to the viewport bottom")
}

// =========================================================================
// Alignment
// =========================================================================

func TestNavigator_AlignmentTargets(t *testing.T) {
	cases := []struct {
		name   string
		align  Align
		index  int
		want   int
		before int
	}{
		// Item 10 spans rows 40..43; viewport height 10.
		{"top", AlignTop, 10, 40, 0},
		{"bottom", AlignBottom, 10, 34, 0},
		{"center", AlignCenter, 10, 37, 0},
		{"auto below moves minimally", AlignAuto, 10, 34, 0},
		{"auto above moves minimally", AlignAuto, 2, 8, 50},
		{"auto visible stays put", AlignAuto, 11, 40, 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, e := newTestNavigator(t, 20)
			e.ScrollTo(tc.before)

			n.SelectAligned(tc.index, tc.align)
			n.Flush()

			require.Equal(t, tc.want, e.ScrollOffset())
		})
	}
}

func TestNavigator_SelectFirstAlignsTop(t *testing.T) {
	n, e := newTestNavigator(t, 20)
	e.ScrollTo(50)

	n.SelectFirst()
	n.Flush()

	require.Equal(t, 0, n.SelectedIndex())
	require.Equal(t, 0, e.ScrollOffset())
}

func TestNavigator_SelectLastAlignsBottom(t *testing.T) {
	n, e := newTestNavigator(t, 20) // content 80, max offset 70

	n.SelectLast()
	n.Flush()

	require.Equal(t, 19, n.SelectedIndex())
	require.Equal(t, 70, e.ScrollOffset())
	require.True(t, e.AtBottom())
}

func TestNavigator_DefaultAlignOption(t *testing.T) {
	n, e := newTestNavigator(t, 20, WithDefaultAlign(AlignCenter))

	n.Select(10)
	n.Flush()

	require.Equal(t, 37, e.ScrollOffset())
}

func TestNavigator_ScrollToUnmeasuredItemIsANoOp(t *testing.T) {
	e := New()
	e.SetItems(makeItems(5))
	e.SetViewportSize(Size{Width: 80, Height: 10})
	e.ScrollTo(0)
	n := NewNavigator(e)

	n.ScrollToItem(3, AlignTop)

	require.Equal(t, 0, e.ScrollOffset(), "zero-height items have no meaningful target")
}

func TestNavigator_IsSelectedVisible(t *testing.T) {
	n, e := newTestNavigator(t, 20)
	n.Select(10)
	n.Flush()

	require.True(t, n.IsSelectedVisible())

	e.ScrollTo(0)
	require.False(t, n.IsSelectedVisible())
}
