package stream

import (
	"context"
	"testing"
	"time"
)

func TestPublishTargetsSubscriberKey(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := s.Subscribe(ctx, "NCC/2024/001", "ANO-101")
	other := s.Subscribe(ctx, "NCC/2024/002", "ANO-101")

	s.Publish(NotificationEvent{RegimentalNumber: "NCC/2024/001", Type: "Support", Message: "hi"})

	select {
	case evt := <-mine:
		if evt.Message != "hi" {
			t.Fatalf("unexpected message: %q", evt.Message)
		}
		if evt.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	select {
	case evt := <-other:
		t.Fatalf("event leaked to another cadet: %+v", evt)
	default:
	}
}

func TestPublishUnitEventStaysInsideUnit(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sameUnit := s.Subscribe(ctx, "NCC/2024/001", "ANO-101")
	otherUnit := s.Subscribe(ctx, "NCC/2024/009", "ANO-202")

	s.Publish(NotificationEvent{AnoID: "ANO-101", Type: "Fallin", Message: "fall-in posted"})

	select {
	case <-sameUnit:
	case <-time.After(time.Second):
		t.Fatal("unit subscriber did not receive event")
	}

	select {
	case evt := <-otherUnit:
		t.Fatalf("event leaked across units: %+v", evt)
	default:
	}
}

func TestPublishBroadcastReachesEveryone(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := s.Subscribe(ctx, "NCC/2024/001", "ANO-101")
	b := s.Subscribe(ctx, "NCC/2024/009", "ANO-202")

	s.Publish(NotificationEvent{Type: "Broadcast", Message: "camp announced"})

	for _, ch := range []<-chan NotificationEvent{a, b} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("broadcast did not reach subscriber")
		}
	}
}

func TestSubscribeClosesOnContextCancel(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx, "NCC/2024/001", "ANO-101")
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
