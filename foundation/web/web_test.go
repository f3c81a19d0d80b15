package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powchain/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_App(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	app.Handle(http.MethodGet, "v1", "/echo/:word", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}

		resp := struct {
			Word    string `json:"word"`
			TraceID string `json:"trace_id"`
		}{
			Word:    web.Param(r, "word"),
			TraceID: v.TraceID,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}, mw("route"))

	app.Handle(http.MethodGet, "v1", "/fail", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity")
	})

	t.Log("Given the need to route requests through middleware.")
	{
		r := httptest.NewRequest(http.MethodGet, "/v1/echo/chain", nil)
		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould receive a status code of 200, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould receive a status code of 200.", success)

		var resp struct {
			Word    string `json:"word"`
			TraceID string `json:"trace_id"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("\t%s\tShould decode the response: %s", failed, err)
		}

		if resp.Word != "chain" || resp.TraceID == "" {
			t.Fatalf("\t%s\tShould get the route parameter and a trace id, got %+v.", failed, resp)
		}
		t.Logf("\t%s\tShould get the route parameter and a trace id.", success)

		if strings.Join(order, ",") != "app,route" {
			t.Fatalf("\t%s\tShould run app middleware first, got %v.", failed, order)
		}
		t.Logf("\t%s\tShould run app middleware first.", success)

		r = httptest.NewRequest(http.MethodGet, "/v1/fail", nil)
		w = httptest.NewRecorder()
		app.ServeHTTP(w, r)

		select {
		case <-shutdown:
			t.Logf("\t%s\tShould signal shutdown on an unhandled error.", success)
		default:
			t.Fatalf("\t%s\tShould signal shutdown on an unhandled error.", failed)
		}
	}
}

func Test_Shutdown(t *testing.T) {
	err := errors.Join(errors.New("other"), web.NewShutdownError("integrity"))
	if !web.IsShutdown(err) {
		t.Fatalf("Should find a wrapped shutdown error.")
	}

	if web.IsShutdown(errors.New("other")) {
		t.Fatalf("Should not treat other errors as shutdown.")
	}
}

func Test_Decode(t *testing.T) {
	var v struct {
		Chain string `json:"chain"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"chain":"0x00","extra":1}`))
	if err := web.Decode(r, &v); err == nil {
		t.Fatalf("Should reject unknown fields.")
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"chain":"0x00"}`))
	if err := web.Decode(r, &v); err != nil || v.Chain != "0x00" {
		t.Fatalf("Should decode the document, got %v", err)
	}
}
