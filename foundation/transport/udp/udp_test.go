package udp_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/transport"
	"github.com/ardanlabs/powchain/foundation/transport/udp"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_SendReceive(t *testing.T) {
	t.Log("Given the need to exchange datagrams between two nodes.")
	{
		a, err := udp.Listen("127.0.0.1:0", 128)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to bind node a: %v", failed, err)
		}
		defer a.Close()

		b, err := udp.Listen("127.0.0.1:0", 128)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to bind node b: %v", failed, err)
		}
		defer b.Close()

		ctx := context.Background()

		recv, err := b.Receive(ctx, 10*time.Millisecond)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to wait for a message: %v", failed, err)
		}

		if _, ok := recv.(transport.Timeout); !ok {
			t.Fatalf("\t%s\tShould time out with nothing sent, got %T.", failed, recv)
		}
		t.Logf("\t%s\tShould time out with nothing sent.", success)

		data := []byte{75, 0, 1, 2, 3}
		if err := a.Broadcast([]string{b.Host()}, data); err != nil {
			t.Fatalf("\t%s\tShould be able to broadcast: %v", failed, err)
		}

		recv, err = b.Receive(ctx, time.Second)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to receive: %v", failed, err)
		}

		msg, ok := recv.(transport.Message)
		if !ok || !bytes.Equal(msg.Data, data) || msg.From != a.Host() {
			t.Fatalf("\t%s\tShould receive the datagram from a, got %#v.", failed, recv)
		}
		t.Logf("\t%s\tShould receive the datagram from a.", success)

		err = a.Send(b.Host(), make([]byte, 129))
		if !errors.Is(err, transport.ErrTooLarge) {
			t.Fatalf("\t%s\tShould refuse an oversized datagram, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould refuse an oversized datagram.", success)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := b.Receive(cctx, time.Second); !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould stop on a cancelled context, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould stop on a cancelled context.", success)
	}
}

func Test_ReceiveOversized(t *testing.T) {
	t.Log("Given the need to drop datagrams larger than the receive limit.")
	{
		a, err := udp.Listen("127.0.0.1:0", 128)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to bind node a: %v", failed, err)
		}
		defer a.Close()

		b, err := udp.Listen("127.0.0.1:0", 8)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to bind node b: %v", failed, err)
		}
		defer b.Close()

		ctx := context.Background()

		if err := a.Send(b.Host(), make([]byte, 16)); err != nil {
			t.Fatalf("\t%s\tShould be able to send: %v", failed, err)
		}

		if _, err := b.Receive(ctx, time.Second); !errors.Is(err, transport.ErrTooLarge) {
			t.Fatalf("\t%s\tShould reject the oversized datagram, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject the oversized datagram.", success)

		data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
		if err := a.Send(b.Host(), data); err != nil {
			t.Fatalf("\t%s\tShould be able to send: %v", failed, err)
		}

		recv, err := b.Receive(ctx, time.Second)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to receive: %v", failed, err)
		}

		msg, ok := recv.(transport.Message)
		if !ok || !bytes.Equal(msg.Data, data) {
			t.Fatalf("\t%s\tShould receive a datagram at the limit intact, got %#v.", failed, recv)
		}
		t.Logf("\t%s\tShould receive a datagram at the limit intact.", success)
	}
}
