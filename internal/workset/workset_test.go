package workset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/summon/internal/item"
)

type fakeAction struct {
	item.Base
	title   string
	empty   bool
	text    bool
	refKind *item.DataKind
	items   []item.Item
	err     error
	panics  bool
	calls   atomic.Int32
	gotText string
	gotRef  *item.ItemData
	mu      sync.Mutex
}

func (f *fakeAction) Describe() item.Item {
	return item.Item{Title: f.title, Action: f}
}
func (f *fakeAction) AcceptsEmptyInput() bool { return f.empty }
func (f *fakeAction) AcceptsText() bool       { return f.text }
func (f *fakeAction) AcceptsReference(ref item.ItemData) bool {
	return f.refKind != nil && *f.refKind == ref.Kind
}

func (f *fakeAction) result() ([]item.Item, error) {
	f.calls.Add(1)
	if f.panics {
		panic("boom")
	}
	return f.items, f.err
}

func (f *fakeAction) Run(context.Context) ([]item.Item, error) { return f.result() }

func (f *fakeAction) RunWithText(_ context.Context, text string) ([]item.Item, error) {
	f.mu.Lock()
	f.gotText = text
	f.mu.Unlock()
	return f.result()
}

func (f *fakeAction) RunWithReference(_ context.Context, ref item.ItemData) ([]item.Item, error) {
	f.mu.Lock()
	f.gotRef = &ref
	f.mu.Unlock()
	return f.result()
}

type memClipboard struct {
	text string
	err  error
}

func (m *memClipboard) ReadText() (string, error) { return m.text, m.err }
func (m *memClipboard) WriteText(text string) error {
	m.text = text
	return m.err
}

func kind(k item.DataKind) *item.DataKind { return &k }

func titles(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func await(t *testing.T, start func(func(Result))) Result {
	t.Helper()
	ch := make(chan Result, 2)
	start(func(r Result) { ch <- r })
	select {
	case r := <-ch:
		select {
		case <-ch:
			t.Fatal("onComplete called twice")
		case <-time.After(20 * time.Millisecond):
		}
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("onComplete not called")
	}
	return Result{}
}

func fixture() (*Context, *fakeAction, *fakeAction, *fakeAction) {
	history := &fakeAction{title: "History", empty: true}
	search := &fakeAction{title: "Search", text: true, refKind: kind(item.DataText)}
	open := &fakeAction{title: "Open", refKind: kind(item.DataPath)}
	c := New(Options{Actions: []item.Action{history, search, open}, Clipboard: &memClipboard{}})
	return c, history, search, open
}

func TestReset_RootList(t *testing.T) {
	c, _, _, _ := fixture()
	assert.Equal(t, []string{"History"}, titles(c.ListItems))
	assert.Nil(t, c.Reference)

	require.NoError(t, c.Quicksend(item.NewPathItem("/tmp/a")))
	c.AsyncSelectCallback([]item.Item{{Title: "x"}})
	c.Reset()
	assert.Equal(t, []string{"History"}, titles(c.ListItems))
	assert.Nil(t, c.Reference)
}

func TestSetActions_TakesEffectOnReset(t *testing.T) {
	c, _, _, _ := fixture()
	c.SetActions([]item.Action{&fakeAction{title: "New", empty: true}})
	assert.Equal(t, []string{"History"}, titles(c.ListItems))
	c.Reset()
	assert.Equal(t, []string{"New"}, titles(c.ListItems))
}

func TestFilter(t *testing.T) {
	c, _, _, _ := fixture()
	c.AsyncSelectCallback([]item.Item{{Title: "alpha"}, {Title: "beta"}, {Title: "gamma"}})
	assert.Equal(t, []int{0, 1, 2}, c.Filter(""))
	assert.Equal(t, []int{1}, c.Filter("bet"))
	assert.Empty(t, c.Filter("zzz"))
	assert.Equal(t, c.Filter("a"), c.Filter("a"))
}

func TestPredicates(t *testing.T) {
	c, history, search, open := fixture()

	assert.True(t, c.Selectable(history.Describe()))
	assert.False(t, c.Selectable(search.Describe()))
	assert.True(t, c.SelectableWithText(search.Describe()))
	assert.False(t, c.Selectable(item.Item{Title: "bare"}))
	assert.False(t, c.SelectableWithText(item.Item{Title: "bare"}))

	require.NoError(t, c.Quicksend(item.NewPathItem("/tmp/a")))
	assert.True(t, c.Selectable(open.Describe()))
	assert.False(t, c.Selectable(history.Describe()))
	assert.False(t, c.SelectableWithText(search.Describe()))

	assert.True(t, c.QuicksendAble(item.NewTextItem("x")))
	assert.False(t, c.QuicksendAble(item.Item{Title: "x"}))
}

func TestQuicksend(t *testing.T) {
	c, _, _, _ := fixture()

	require.NoError(t, c.Quicksend(item.NewTextItem("hello")))
	assert.Equal(t, []string{"Search"}, titles(c.ListItems))
	require.NotNil(t, c.Reference)
	assert.Equal(t, item.TextData("hello"), *c.Reference)

	err := c.Quicksend(item.Item{Title: "nothing"})
	assert.ErrorIs(t, err, item.ErrNotSelectable)
}

func TestQuicksend_NoAcceptingAction(t *testing.T) {
	c := New(Options{Actions: []item.Action{&fakeAction{title: "H", empty: true}}})
	err := c.Quicksend(item.NewTextItem("x"))
	assert.ErrorIs(t, err, item.ErrNoData)
	assert.Nil(t, c.Reference)
	assert.Equal(t, []string{"H"}, titles(c.ListItems))
}

func TestQuicksendFromClipboard(t *testing.T) {
	c, _, _, _ := fixture()
	cb := c.clipboard.(*memClipboard)

	assert.ErrorIs(t, c.QuicksendFromClipboard(), item.ErrNoData)

	cb.text = "copied"
	require.NoError(t, c.QuicksendFromClipboard())
	assert.Equal(t, item.TextData("copied"), *c.Reference)

	cb.err = errors.New("no xclip")
	assert.ErrorIs(t, c.QuicksendFromClipboard(), item.ErrActionFailed)

	assert.ErrorIs(t, New(Options{}).QuicksendFromClipboard(), item.ErrNoData)
}

func TestCopyContentToClipboard(t *testing.T) {
	c, _, _, _ := fixture()
	cb := c.clipboard.(*memClipboard)

	require.NoError(t, c.CopyContentToClipboard(item.NewPathItem("/etc/hosts")))
	assert.Equal(t, "/etc/hosts", cb.text)

	require.NoError(t, c.CopyContentToClipboard(item.Item{Title: "Title only"}))
	assert.Equal(t, "Title only", cb.text)
}

func TestAsyncSelect_Success(t *testing.T) {
	c, history, _, _ := fixture()
	history.items = []item.Item{{Title: "one"}, {Title: "two"}}

	res := await(t, func(done func(Result)) { c.AsyncSelect(history.Describe(), done) })
	require.NoError(t, res.Err)
	assert.Equal(t, int32(1), history.calls.Load())

	c.AsyncSelectCallback(res.Items)
	assert.Equal(t, []string{"one", "two"}, titles(c.ListItems))
}

func TestAsyncSelect_UsesReference(t *testing.T) {
	c, _, _, open := fixture()
	require.NoError(t, c.Quicksend(item.NewPathItem("/tmp/a")))

	res := await(t, func(done func(Result)) { c.AsyncSelect(open.Describe(), done) })
	require.NoError(t, res.Err)
	open.mu.Lock()
	defer open.mu.Unlock()
	require.NotNil(t, open.gotRef)
	assert.Equal(t, item.PathData("/tmp/a"), *open.gotRef)
}

func TestAsyncSelect_Failure(t *testing.T) {
	c, history, _, _ := fixture()
	history.err = errors.New("disk gone")

	res := await(t, func(done func(Result)) { c.AsyncSelect(history.Describe(), done) })
	assert.ErrorIs(t, res.Err, item.ErrActionFailed)
	assert.Contains(t, res.Err.Error(), "disk gone")
}

func TestAsyncSelect_KindedErrorPassesThrough(t *testing.T) {
	c, history, _, _ := fixture()
	history.err = item.NewError(item.ErrNoData, "nothing here")

	res := await(t, func(done func(Result)) { c.AsyncSelect(history.Describe(), done) })
	assert.ErrorIs(t, res.Err, item.ErrNoData)
	assert.Equal(t, "nothing here", res.Err.Error())
}

func TestAsyncSelect_PanicRecovered(t *testing.T) {
	c, history, _, _ := fixture()
	history.panics = true

	res := await(t, func(done func(Result)) { c.AsyncSelect(history.Describe(), done) })
	assert.ErrorIs(t, res.Err, item.ErrActionFailed)
	assert.Contains(t, res.Err.Error(), "boom")
}

func TestAsyncSelect_NoAction(t *testing.T) {
	c, _, _, _ := fixture()
	res := await(t, func(done func(Result)) { c.AsyncSelect(item.Item{Title: "bare"}, done) })
	assert.ErrorIs(t, res.Err, item.ErrNotSelectable)
}

func TestAsyncSelectWithText(t *testing.T) {
	c, _, search, _ := fixture()

	res := await(t, func(done func(Result)) { c.AsyncSelectWithText(search.Describe(), "golang", done) })
	require.NoError(t, res.Err)
	search.mu.Lock()
	defer search.mu.Unlock()
	assert.Equal(t, "golang", search.gotText)
}

func TestItemBounds(t *testing.T) {
	c, _, _, _ := fixture()
	_, ok := c.Item(-1)
	assert.False(t, ok)
	_, ok = c.Item(c.Len())
	assert.False(t, ok)
	it, ok := c.Item(0)
	assert.True(t, ok)
	assert.Equal(t, "History", it.Title)
	assert.Equal(t, []int{0}, c.All())
}
