package cache

import (
	"context"
	"testing"
	"time"
)

func TestNilClientDegradesToMisses(t *testing.T) {
	c := NewAnswerCache(nil, time.Minute)

	if _, found := c.Get(context.Background(), "berapa lama proses NIB?"); found {
		t.Error("nil client should never report a hit")
	}
	// Must not panic.
	c.Set(context.Background(), "berapa lama proses NIB?", "Sekitar 1 hari kerja.")
}

func TestAnswerKeyNormalizesQuestion(t *testing.T) {
	a := answerKey("  Berapa   Lama proses NIB? ")
	b := answerKey("berapa lama proses nib?")
	if a != b {
		t.Errorf("equivalent questions map to different keys:\n%s\n%s", a, b)
	}

	c := answerKey("syarat izin reklame")
	if a == c {
		t.Error("different questions collided on one key")
	}
}
