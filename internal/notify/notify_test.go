package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Notify(t *testing.T) {
	h := NewHub(2)

	first := h.Notify(Notification{Title: "Document Created"})
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, Default, first.Variant)
	assert.False(t, first.Time.IsZero())

	h.Notify(Notification{Title: "Upload Failed", Variant: Destructive})
	h.Notify(Notification{Title: "Document Signed"})

	got := h.Since(0)
	require.Len(t, got, 2)
	assert.Equal(t, "Upload Failed", got[0].Title)
	assert.Equal(t, Destructive, got[0].Variant)
	assert.Equal(t, int64(3), got[1].Seq)

	assert.Len(t, h.Since(2), 1)
	assert.Empty(t, h.Since(3))
}

func TestHub_Subscribe(t *testing.T) {
	h := NewHub(10)
	h.Notify(Notification{Title: "a"})

	backlog, ch, cancel := h.Subscribe(0)
	require.Len(t, backlog, 1)

	h.Notify(Notification{Title: "b"})
	n := <-ch
	assert.Equal(t, "b", n.Title)

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// a second cancel is harmless
	cancel()
	h.Notify(Notification{Title: "c"})
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	h := NewHub(1000)
	_, ch, cancel := h.Subscribe(0)
	defer cancel()

	for i := 0; i < 65; i++ {
		h.Notify(Notification{Title: "x"})
	}

	count := 0
	for range ch {
		count++
	}
	assert.Equal(t, 64, count)
}
