package folio

import (
	"math/rand"
	"slices"
	"testing"
	"time"
)

func TestReplay_Empty(t *testing.T) {
	s := Replay(KOSPI, nil)

	if !s.Quantity.IsZero() {
		t.Errorf("Quantity = %v, want 0", s.Quantity)
	}
	for name, m := range map[string]Money{
		"AverageCost": s.AverageCost,
		"CostBasis":   s.CostBasis,
		"Fees":        s.Fees,
		"RealizedPnL": s.RealizedPnL,
	} {
		if !m.Equal(KRW(0)) {
			t.Errorf("%s = %v, want %v", name, m, KRW(0))
		}
	}
	if got, want := s.Currency(), "KRW"; got != want {
		t.Errorf("Currency() = %q, want %q", got, want)
	}
}

func TestReplay_SingleBuy(t *testing.T) {
	s := Replay(NASDAQ, []Transaction{buy(day(2025, 1, 2), 7, 123.45, 0, 0)})

	if got, want := s.AverageCost, USD(123.45); !got.Equal(want) {
		t.Errorf("AverageCost = %v, want %v", got, want)
	}
	if got, want := s.Quantity, Q(7); !got.Equal(want) {
		t.Errorf("Quantity = %v, want %v", got, want)
	}
	if got, want := s.CostBasis, USD(864.15); !got.Equal(want) {
		t.Errorf("CostBasis = %v, want %v", got, want)
	}
}

func TestReplay_Scenario(t *testing.T) {
	t1, t2, t3 := day(2025, 1, 1), day(2025, 1, 2), day(2025, 1, 3)
	txs := []Transaction{
		buy(t1, 10, 100, 1, 0),
		buy(t2, 10, 120, 1, 0),
		sell(t3, 5, 150, 0, 1),
	}

	t.Run("before the sale", func(t *testing.T) {
		s := ReplayUntil(KOSPI, txs, t2)
		if got, want := s.Quantity, Q(20); !got.Equal(want) {
			t.Errorf("Quantity = %v, want %v", got, want)
		}
		if got, want := s.AverageCost, KRW(110); !got.Equal(want) {
			t.Errorf("AverageCost = %v, want %v", got, want)
		}
		if got, want := s.CostBasis, KRW(2200); !got.Equal(want) {
			t.Errorf("CostBasis = %v, want %v", got, want)
		}
	})

	t.Run("after the sale", func(t *testing.T) {
		s := Replay(KOSPI, txs)
		if got, want := s.RealizedPnL, KRW(200); !got.Equal(want) {
			t.Errorf("RealizedPnL = %v, want %v", got, want)
		}
		if got, want := s.Quantity, Q(15); !got.Equal(want) {
			t.Errorf("Quantity = %v, want %v", got, want)
		}
		if got, want := s.CostBasis, KRW(1650); !got.Equal(want) {
			t.Errorf("CostBasis = %v, want %v", got, want)
		}
		if got, want := s.AverageCost, KRW(110); !got.Equal(want) {
			t.Errorf("AverageCost = %v, want %v", got, want)
		}
		if got, want := s.Fees, KRW(3); !got.Equal(want) {
			t.Errorf("Fees = %v, want %v", got, want)
		}
		if s.Anomalies != 0 {
			t.Errorf("Anomalies = %d, want 0", s.Anomalies)
		}
	})
}

func TestReplay_FullSale(t *testing.T) {
	txs := []Transaction{
		buy(day(2025, 2, 1), 10, 100, 0, 0),
		buy(day(2025, 2, 2), 30, 200, 0, 0),
		sell(day(2025, 2, 3), 40, 150, 0, 0),
	}
	before := ReplayUntil(NYSE, txs, day(2025, 2, 2))
	s := Replay(NYSE, txs)

	// (150 - 175) × 40
	want := USD(150).Sub(before.AverageCost).Mul(Q(40))
	if got := s.RealizedPnL; !got.Equal(want) || !got.Equal(USD(-1000)) {
		t.Errorf("RealizedPnL = %v, want %v", got, want)
	}
	if !s.Quantity.IsZero() {
		t.Errorf("Quantity = %v, want 0", s.Quantity)
	}
	if !s.CostBasis.IsZero() || !s.AverageCost.IsZero() {
		t.Errorf("CostBasis, AverageCost = %v, %v, want 0, 0", s.CostBasis, s.AverageCost)
	}
	if !s.Closed() {
		t.Error("Closed() = false, want true")
	}
}

func TestReplay_RoundingDustIsCleared(t *testing.T) {
	// 100/3 is not exact: selling the three units in several sells would leave
	// dust in the cost basis if it was not reset.
	txs := []Transaction{
		buy(day(2025, 3, 1), 1, 10, 0, 0),
		buy(day(2025, 3, 2), 2, 45, 0, 0),
		sell(day(2025, 3, 3), 1, 40, 0, 0),
		sell(day(2025, 3, 4), 1, 40, 0, 0),
		sell(day(2025, 3, 5), 1, 40, 0, 0),
	}
	s := Replay(KOSDAQ, txs)
	if !s.Quantity.IsZero() || !s.CostBasis.IsZero() {
		t.Errorf("Quantity, CostBasis = %v, %v, want 0, 0", s.Quantity, s.CostBasis.Decimal())
	}
}

func TestReplay_OverSell(t *testing.T) {
	txs := []Transaction{
		buy(day(2025, 4, 1), 5, 100, 0, 0),
		sell(day(2025, 4, 2), 8, 120, 0, 0),
	}
	s := Replay(KOSPI, txs)

	if !s.Quantity.IsZero() {
		t.Errorf("Quantity = %v, want 0", s.Quantity)
	}
	if !s.CostBasis.IsZero() {
		t.Errorf("CostBasis = %v, want 0", s.CostBasis)
	}
	// the gain is realized on the whole sold quantity.
	if got, want := s.RealizedPnL, KRW(160); !got.Equal(want) {
		t.Errorf("RealizedPnL = %v, want %v", got, want)
	}
	if got, want := s.Anomalies, 1; got != want {
		t.Errorf("Anomalies = %d, want %d", got, want)
	}

	t.Run("a later buy starts afresh", func(t *testing.T) {
		s := Replay(KOSPI, append(txs, buy(day(2025, 4, 3), 2, 90, 0, 0)))
		if got, want := s.Quantity, Q(2); !got.Equal(want) {
			t.Errorf("Quantity = %v, want %v", got, want)
		}
		if got, want := s.AverageCost, KRW(90); !got.Equal(want) {
			t.Errorf("AverageCost = %v, want %v", got, want)
		}
	})
}

func TestReplay_SortsByTradeDate(t *testing.T) {
	// The sell is recorded first but traded last.
	txs := []Transaction{
		sell(day(2025, 1, 3), 5, 150, 0, 1),
		buy(day(2025, 1, 2), 10, 120, 1, 0),
		buy(day(2025, 1, 1), 10, 100, 1, 0),
	}
	s := Replay(KOSPI, txs)
	if got, want := s.RealizedPnL, KRW(200); !got.Equal(want) {
		t.Errorf("RealizedPnL = %v, want %v", got, want)
	}
	if s.Anomalies != 0 {
		t.Errorf("Anomalies = %d, want 0", s.Anomalies)
	}
	if txs[0].Type != Sell || !txs[2].TradeDate.Equal(day(2025, 1, 1)) {
		t.Error("Replay modified its input")
	}
}

func TestReplay_SameDateKeepsInputOrder(t *testing.T) {
	on := day(2025, 5, 1)

	// buy then sell: a regular round trip.
	s := Replay(KOSPI, []Transaction{buy(on, 10, 100, 0, 0), sell(on, 10, 110, 0, 0)})
	if got, want := s.RealizedPnL, KRW(100); !got.Equal(want) || s.Anomalies != 0 {
		t.Errorf("buy, sell: RealizedPnL, Anomalies = %v, %d, want %v, 0", got, s.Anomalies, want)
	}

	// sell then buy: the sell comes first and is an over-sell.
	s = Replay(KOSPI, []Transaction{sell(on, 10, 110, 0, 0), buy(on, 10, 100, 0, 0)})
	if got, want := s.Quantity, Q(10); !got.Equal(want) || s.Anomalies != 1 {
		t.Errorf("sell, buy: Quantity, Anomalies = %v, %d, want %v, 1", got, s.Anomalies, want)
	}
}

// randomHistory returns n transactions with distinct trade dates, in
// chronological order.
func randomHistory(r *rand.Rand, n int) []Transaction {
	txs := make([]Transaction, 0, n)
	on := day(2024, 1, 1)
	for i := 0; i < n; i++ {
		on = on.Add(time.Duration(1+r.Intn(48)) * time.Hour)
		qty := 1 + r.Intn(20)
		price := float64(50 + r.Intn(100))
		fee := float64(r.Intn(3))
		if r.Intn(3) == 0 {
			txs = append(txs, sell(on, qty, price, 0, fee))
		} else {
			txs = append(txs, buy(on, qty, price, fee, 0))
		}
	}
	return txs
}

func equalStats(a, b HoldingStats) bool {
	return a.AverageCost.Equal(b.AverageCost) &&
		a.Quantity.Equal(b.Quantity) &&
		a.CostBasis.Equal(b.CostBasis) &&
		a.Fees.Equal(b.Fees) &&
		a.RealizedPnL.Equal(b.RealizedPnL) &&
		a.Anomalies == b.Anomalies
}

func TestReplay_Invariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		txs := randomHistory(r, 1+r.Intn(30))
		s := Replay(KOSPI, txs)
		if s.Quantity.IsNegative() {
			t.Fatalf("history %d: Quantity = %v, want >= 0", i, s.Quantity)
		}
		if s.Quantity.IsZero() && !s.CostBasis.IsZero() {
			t.Fatalf("history %d: CostBasis = %v with no quantity", i, s.CostBasis.Decimal())
		}
		if s.CostBasis.IsNegative() {
			t.Fatalf("history %d: CostBasis = %v, want >= 0", i, s.CostBasis.Decimal())
		}
	}
}

func TestReplay_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		txs := randomHistory(r, 2+r.Intn(30))
		want := Replay(NASDAQ, txs)

		shuffled := slices.Clone(txs)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := Replay(NASDAQ, shuffled); !equalStats(got, want) {
			t.Fatalf("history %d: shuffled replay = %+v, want %+v", i, got, want)
		}
	}
}
