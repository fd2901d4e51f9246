package wire

import "testing"

func TestBoolListByteLen(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
	}
	for _, c := range cases {
		if got := BoolListByteLen(c.n); got != c.want {
			t.Errorf("BoolListByteLen(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestDeriveMagicNeverZero(t *testing.T) {
	names := []string{"a.b.T", "", "namespace.Table"}
	for _, n := range names {
		if got := DeriveMagic(n); got == 0 {
			t.Errorf("DeriveMagic(%q) = 0, want nonzero", n)
		}
	}
}

func TestDeriveMagicDeterministic(t *testing.T) {
	a := DeriveMagic("ns.Table")
	b := DeriveMagic("ns.Table")
	if a != b {
		t.Errorf("DeriveMagic not deterministic: %x != %x", a, b)
	}
	if DeriveMagic("ns.Table") == DeriveMagic("ns.OtherTable") {
		t.Errorf("DeriveMagic collided for distinct names")
	}
}
