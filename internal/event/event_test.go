package event

import (
	"errors"
	"testing"

	"github.com/micapu/market-made-web/internal/model"
)

func TestKindFromWire(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"gameState", KindGameState},
		{"gameView", KindGameView},
		{"orderInsert", KindOrderInsert},
		{"orderUpdate", KindOrderUpdate},
		{"onTick", KindTick},
		{"playerDataUpdate", KindPlayerData},
		{"youJoined", KindYouJoined},
		{"gameJoin", KindGameJoin},
		{"gameStart", KindGameStart},
		{"marketValueUpdate", KindMarketValue},
		{"erroneousAction", KindError},
		{"info", KindInfo},
		{"somethingElse", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		if got := KindFromWire(tt.name); got != tt.want {
			t.Errorf("KindFromWire(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestKindRoundTrip(t *testing.T) {
	kinds := []Kind{
		KindGameState, KindGameView, KindOrderInsert, KindOrderUpdate,
		KindTick, KindPlayerData, KindYouJoined, KindGameJoin,
		KindGameStart, KindMarketValue, KindError, KindInfo,
	}
	for _, k := range kinds {
		if got := KindFromWire(k.WireName()); got != k {
			t.Errorf("round trip failed for %v: wire %q maps to %v", k, k.WireName(), got)
		}
	}
}

func TestParse(t *testing.T) {
	t.Run("order insert", func(t *testing.T) {
		ev, err := Parse([]byte(`{"type":"orderInsert","data":{"orderId":7,"name":"alice","price":2.5,"volume":3,"originalVolume":3,"isBid":true}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if ev.Kind != KindOrderInsert {
			t.Errorf("kind = %v, want orderInsert", ev.Kind)
		}
		order, ok := ev.Payload.(model.Order)
		if !ok {
			t.Fatalf("payload type %T, want model.Order", ev.Payload)
		}
		if order.OrderID != 7 || order.OwnerName != "alice" || !order.IsBid {
			t.Errorf("order = %+v", order)
		}
	})

	t.Run("tick with legacy transaction id", func(t *testing.T) {
		ev, err := Parse([]byte(`{"type":"onTick","data":{"transactionId":42,"price":2.6,"volume":1,"buyer":"alice","seller":"bob","timestamp":1637721063000}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		tick := ev.Payload.(model.Tick)
		if tick.TickID != 42 {
			t.Errorf("TickID = %d, want 42 (from transactionId)", tick.TickID)
		}
	})

	t.Run("player data with legacy negative outstanding volumes", func(t *testing.T) {
		ev, err := Parse([]byte(`{"type":"playerDataUpdate","data":{"name":"alice","totalOutstandingLongVolume":-5,"totalOutstandingShortVolume":-3}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		player := ev.Payload.(model.PlayerData)
		if player.OutstandingBidVolume != 5 || player.OutstandingAskVolume != 3 {
			t.Errorf("outstanding = (%v, %v), want (5, 3)", player.OutstandingBidVolume, player.OutstandingAskVolume)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Parse([]byte(`{"type":"someFutureThing","data":{}}`))
		if !errors.Is(err, ErrUnknownKind) {
			t.Errorf("err = %v, want ErrUnknownKind", err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Parse([]byte(`garbage`))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("err = %v, want ErrMalformed", err)
		}
	})

	t.Run("order missing required field", func(t *testing.T) {
		_, err := Parse([]byte(`{"type":"orderInsert","data":{"orderId":7,"name":"alice"}}`))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("err = %v, want ErrMalformed", err)
		}
	})

	t.Run("order violating volume invariant", func(t *testing.T) {
		_, err := Parse([]byte(`{"type":"orderInsert","data":{"orderId":7,"name":"alice","price":2,"volume":5,"originalVolume":3,"isBid":true}}`))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("err = %v, want ErrMalformed", err)
		}
	})

	t.Run("game state defaults tick size", func(t *testing.T) {
		ev, err := Parse([]byte(`{"type":"gameState","data":{"gameName":"g","gameMinutes":5,"parties":[],"playerData":{},"bids":[],"asks":[],"ticks":[]}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		p := ev.Payload.(GameStatePayload)
		if p.TickSize != defaultTickSize {
			t.Errorf("TickSize = %v, want default %v", p.TickSize, defaultTickSize)
		}
	})

	t.Run("synthetic you joined without name", func(t *testing.T) {
		ev, err := Parse([]byte(`{"type":"youJoined","data":{"name":null}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		p := ev.Payload.(YouJoinedPayload)
		if p.Player.Name != "" {
			t.Errorf("name = %q, want empty", p.Player.Name)
		}
	})

	t.Run("error event", func(t *testing.T) {
		ev, err := Parse([]byte(`{"type":"erroneousAction","data":{"message":"not the host","redirect":true}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		p := ev.Payload.(ErrorPayload)
		if p.Message != "not the host" || !p.Redirect {
			t.Errorf("payload = %+v", p)
		}
	})
}

func TestDispatcher(t *testing.T) {
	t.Run("runs handlers in registration order", func(t *testing.T) {
		d := NewDispatcher(nil)
		var order []int
		d.Register(KindInfo, func(Event) error { order = append(order, 1); return nil })
		d.Register(KindInfo, func(Event) error { order = append(order, 2); return nil })

		if err := d.Dispatch(Event{Kind: KindInfo}); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Errorf("handler order = %v, want [1 2]", order)
		}
	})

	t.Run("no handlers is a no-op", func(t *testing.T) {
		d := NewDispatcher(nil)
		if err := d.Dispatch(Event{Kind: KindTick}); err != nil {
			t.Errorf("Dispatch = %v, want nil", err)
		}
	})

	t.Run("first error stops the fanout", func(t *testing.T) {
		d := NewDispatcher(nil)
		boom := errors.New("boom")
		var secondRan bool
		d.Register(KindInfo, func(Event) error { return boom })
		d.Register(KindInfo, func(Event) error { secondRan = true; return nil })

		if err := d.Dispatch(Event{Kind: KindInfo}); !errors.Is(err, boom) {
			t.Errorf("Dispatch = %v, want boom", err)
		}
		if secondRan {
			t.Error("second handler ran after first errored")
		}
	})
}

func TestQueue(t *testing.T) {
	t.Run("fifo", func(t *testing.T) {
		q := NewQueue(8)
		for i := 0; i < 5; i++ {
			if !q.Send(Event{Kind: KindTick, Payload: i}) {
				t.Fatal("Send returned false")
			}
		}
		for i := 0; i < 5; i++ {
			ev, ok := q.Receive()
			if !ok || ev.Payload.(int) != i {
				t.Fatalf("Receive %d = (%+v, %v)", i, ev, ok)
			}
		}
	})

	t.Run("grows instead of dropping", func(t *testing.T) {
		q := NewQueue(2)
		for i := 0; i < 100; i++ {
			if !q.Send(Event{Kind: KindTick, Payload: i}) {
				t.Fatalf("Send %d returned false", i)
			}
		}
		stats := q.Stats()
		if stats.Count != 100 {
			t.Errorf("Count = %d, want 100", stats.Count)
		}
		if stats.ResizeCount == 0 {
			t.Error("queue never grew")
		}
		// Drain in order across the resizes.
		for i := 0; i < 100; i++ {
			ev, ok := q.TryReceive()
			if !ok || ev.Payload.(int) != i {
				t.Fatalf("TryReceive %d = (%+v, %v)", i, ev, ok)
			}
		}
	})

	t.Run("close drains then reports closed", func(t *testing.T) {
		q := NewQueue(8)
		q.Send(Event{Kind: KindTick})
		q.Close()

		if q.Send(Event{Kind: KindTick}) {
			t.Error("Send after Close returned true")
		}
		if _, ok := q.Receive(); !ok {
			t.Error("queued event lost on Close")
		}
		if _, ok := q.Receive(); ok {
			t.Error("Receive after drain returned ok")
		}
	})

	t.Run("receive blocks until send", func(t *testing.T) {
		q := NewQueue(8)
		done := make(chan Event, 1)
		go func() {
			ev, _ := q.Receive()
			done <- ev
		}()

		q.Send(Event{Kind: KindInfo, Payload: "hello"})
		ev := <-done
		if ev.Payload.(string) != "hello" {
			t.Errorf("payload = %v", ev.Payload)
		}
	})

	t.Run("try receive on empty", func(t *testing.T) {
		q := NewQueue(8)
		if _, ok := q.TryReceive(); ok {
			t.Error("TryReceive on empty queue returned ok")
		}
	})
}
