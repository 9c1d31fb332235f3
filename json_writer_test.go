package folio

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("keeps field order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("ticker", "005930")
		w.Append("market", KOSPI)
		w.Append("quantity", Q(10))
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"ticker":"005930","market":"KOSPI","quantity":10}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("anomalies", 0) // a zero value is still written by Append.
		w.Optional("id", "")
		w.Optional("count", 0)
		w.Optional("memo", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"anomalies":0,"memo":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("ticker", "AAPL")
		w.Embed(json.RawMessage(` {"type":"BUY","price":10} `))
		w.Embed(json.RawMessage(`{}`))
		w.Append("market", NASDAQ)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"ticker":"AAPL","type":"BUY","price":10,"market":"NASDAQ"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed a non object", func(t *testing.T) {
		var w jsonObjectWriter
		w.Embed(json.RawMessage(`[1,2]`))
		w.Append("a", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() succeeded, want an error")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("market", Market(0))
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() succeeded on an invalid market, want an error")
		}
	})
}
