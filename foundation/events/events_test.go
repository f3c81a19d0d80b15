package events_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_FanOut(t *testing.T) {
	evts := events.New()

	t.Log("Given the need to send node events to subscribers.")
	{
		a := evts.Acquire("a")
		b := evts.Acquire("b")

		if evts.Subscribers() != 2 {
			t.Fatalf("\t%s\tShould have two subscribers, got %d.", failed, evts.Subscribers())
		}
		t.Logf("\t%s\tShould have two subscribers.", success)

		evts.Send("worker: mined")

		if <-a != "worker: mined" || <-b != "worker: mined" {
			t.Fatalf("\t%s\tShould deliver the event to every subscriber.", failed)
		}
		t.Logf("\t%s\tShould deliver the event to every subscriber.", success)

		if err := evts.Release("a"); err != nil {
			t.Fatalf("\t%s\tShould release a subscriber: %s", failed, err)
		}
		if _, open := <-a; open {
			t.Fatalf("\t%s\tShould close a released channel.", failed)
		}
		if err := evts.Release("a"); err == nil {
			t.Fatalf("\t%s\tShould not release a subscriber twice.", failed)
		}
		t.Logf("\t%s\tShould release a subscriber once.", success)

		for range 200 {
			evts.Send("flood")
		}
		t.Logf("\t%s\tShould never block on a slow subscriber.", success)

		evts.Shutdown()

		for range b {
		}
		if evts.Subscribers() != 0 {
			t.Fatalf("\t%s\tShould remove every subscriber on shutdown.", failed)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}
