package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"testing"
)

func mustCurve(t testing.TB, name string) Curve {
	t.Helper()
	c, err := InitCurve(name)
	if err != nil {
		t.Fatalf("InitCurve(%s): %v", name, err)
	}
	return c
}

func TestInitCurve(t *testing.T) {
	for _, name := range Curves() {
		c := mustCurve(t, name)
		if c.Name() != name {
			t.Errorf("got curve %s, want %s", c.Name(), name)
		}
	}

	if _, err := InitCurve("P257"); !errors.Is(err, ErrUnknownCurve) {
		t.Fatalf("unknown curve: got %v, want ErrUnknownCurve", err)
	}
}

var generatorTests = []struct {
	curve string
	k     uint32
	out   string
}{
	{Secp256k1, 1, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"},
	{P256, 1, "036b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"},
	{Ristretto255, 1, "e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76"},
	{Ristretto255, 2, "6a493210f7499cd17fecb510ae0cea23a110e8d5b901f8acadd3095c73a3b919"},
	{Ristretto255GR, 1, "e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76"},
	{Ristretto255GR, 2, "6a493210f7499cd17fecb510ae0cea23a110e8d5b901f8acadd3095c73a3b919"},
}

func TestScalarBaseMultVectors(t *testing.T) {
	for i, e := range generatorTests {
		c := mustCurve(t, e.curve)
		got := hex.EncodeToString(c.ScalarBaseMult(c.ScalarFromUint32(e.k)).Marshal())
		if got != e.out {
			t.Errorf("#%d %s: got %s, want %s", i, e.curve, got, e.out)
		}
	}
}

// P256 vectors for the crypto/elliptic backend
var nistAddTests = []struct {
	xLeft, yLeft   string
	xRight, yRight string
	xOut, yOut     string
}{
	{
		"48439561293906451759052585252797914202762949526041747995844080717082404635286", // base point X
		"36134250956749795798585127919587881956611106672985015071877198253568414405109", // base point Y
		"48439561293906451759052585252797914202762949526041747995844080717082404635286",
		"36134250956749795798585127919587881956611106672985015071877198253568414405109",
		"56515219790691171413109057904011688695424810155802929973526481321309856242040", // 2x
		"3377031843712258259223711451491452598088675519751548567112458094635497583569",  // 2y
	},
	{
		"48439561293906451759052585252797914202762949526041747995844080717082404635286",  // base point X
		"36134250956749795798585127919587881956611106672985015071877198253568414405109",  // base point Y
		"102369864249653057322725350723741461599905180004905897298779971437827381725266", // 4x
		"101744491111635190512325668403432589740384530506764148840112137220732283181254", // 4y
		"36794669340896883012101473439538929759152396476648692591795318194054580155373",  // 5x
		"101659946828913883886577915207667153874746613498030835602133042203824767462820", // 5y
	},
}

func decimalPoint(c *nistCurve, x, y string) *nistPoint {
	xx, _ := new(big.Int).SetString(x, 10)
	yy, _ := new(big.Int).SetString(y, 10)
	return c.newPoint(xx, yy)
}

func TestNistAdd(t *testing.T) {
	c := newNist(P256).(*nistCurve)
	for i, e := range nistAddTests {
		left := decimalPoint(c, e.xLeft, e.yLeft)
		right := decimalPoint(c, e.xRight, e.yRight)
		want := decimalPoint(c, e.xOut, e.yOut)

		if sum := c.Add(left, right); !sum.Equal(want) {
			t.Errorf("#%d: got %x, want %x", i, sum.Marshal(), want.Marshal())
		}

		// subtraction as addition of the inverse
		if diff := c.Add(want, c.Negate(right)); !diff.Equal(left) {
			t.Errorf("#%d: got %x, want %x", i, diff.Marshal(), left.Marshal())
		}
	}
}

func TestGroupLaws(t *testing.T) {
	for _, name := range Curves() {
		t.Run(name, func(t *testing.T) {
			c := mustCurve(t, name)
			_, p, err := c.GenerateKey(rand.Reader)
			if err != nil {
				t.Fatal(err)
			}

			if !c.Add(p, c.Negate(p)).IsIdentity() {
				t.Error("p + (-p) is not the identity")
			}
			if !c.Add(p, c.Identity()).Equal(p) {
				t.Error("p + 0 != p")
			}
			if !c.Negate(c.Negate(p)).Equal(p) {
				t.Error("-(-p) != p")
			}

			// 2·G + 3·G = 5·G
			g2 := c.ScalarBaseMult(c.ScalarFromUint32(2))
			g3 := c.ScalarBaseMult(c.ScalarFromUint32(3))
			g5 := c.ScalarBaseMult(c.ScalarFromUint32(5))
			if !c.Add(g2, g3).Equal(g5) {
				t.Error("2G + 3G != 5G")
			}

			g := c.ScalarBaseMult(c.ScalarFromUint32(1))
			if !c.ScalarMult(g, c.ScalarFromUint32(5)).Equal(g5) {
				t.Error("5·G computed two ways differs")
			}

			// 7·p = 2·p + 5·p
			p7 := c.ScalarMult(p, c.ScalarFromUint32(7))
			if !c.Add(c.ScalarMult(p, c.ScalarFromUint32(2)), c.ScalarMult(p, c.ScalarFromUint32(5))).Equal(p7) {
				t.Error("2p + 5p != 7p")
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	for _, name := range Curves() {
		t.Run(name, func(t *testing.T) {
			c := mustCurve(t, name)
			id := c.Identity()
			if !id.IsIdentity() {
				t.Fatal("Identity() is not the identity")
			}
			if !bytes.Equal(id.Marshal(), []byte{0x00}) {
				t.Errorf("identity marshals to %x", id.Marshal())
			}

			k, p, err := c.GenerateKey(rand.Reader)
			if err != nil {
				t.Fatal(err)
			}
			if p.IsIdentity() || k.IsZero() {
				t.Fatal("generated a degenerate key")
			}
			if !c.ScalarMult(id, k).IsIdentity() {
				t.Error("k·0 is not the identity")
			}
			if !c.ScalarMult(p, c.ScalarFromUint32(0)).IsIdentity() {
				t.Error("0·p is not the identity")
			}
			if !c.ScalarBaseMult(c.ScalarFromUint32(0)).IsIdentity() {
				t.Error("0·G is not the identity")
			}

			_, err = c.Unmarshal(id.Marshal())
			if !errors.Is(err, ErrIdentityPoint) || !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("unmarshal identity: got %v", err)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, name := range Curves() {
		t.Run(name, func(t *testing.T) {
			c := mustCurve(t, name)
			for i := 0; i < 16; i++ {
				_, p, err := c.GenerateKey(rand.Reader)
				if err != nil {
					t.Fatal(err)
				}

				b := p.Marshal()
				if len(b) != c.EncodeLen() {
					t.Fatalf("encoded %d bytes, want %d", len(b), c.EncodeLen())
				}

				q, err := c.Unmarshal(b)
				if err != nil {
					t.Fatalf("#%d: %v", i, err)
				}
				if !q.Equal(p) {
					t.Fatalf("#%d: round trip changed the point", i)
				}
			}
		})
	}
}

func TestUnmarshalRejects(t *testing.T) {
	for _, name := range Curves() {
		t.Run(name, func(t *testing.T) {
			c := mustCurve(t, name)
			_, p, err := c.GenerateKey(rand.Reader)
			if err != nil {
				t.Fatal(err)
			}
			valid := p.Marshal()

			cases := map[string][]byte{
				"empty":     nil,
				"truncated": valid[:len(valid)-1],
				"extended":  append(append([]byte(nil), valid...), 0x01),
				"all ones":  bytes.Repeat([]byte{0xff}, c.EncodeLen()),
			}
			for what, b := range cases {
				if _, err := c.Unmarshal(b); !errors.Is(err, ErrInvalidEncoding) {
					t.Errorf("%s: got %v, want ErrInvalidEncoding", what, err)
				}
			}
		})
	}
}

func TestUnmarshalOffCurve(t *testing.T) {
	// x >= p is not a field element
	c := mustCurve(t, Secp256k1)
	b := append([]byte{0x02}, bytes.Repeat([]byte{0xff}, 32)...)
	if _, err := c.Unmarshal(b); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("got %v, want ErrInvalidEncoding", err)
	}

	// a field element whose x³ + 7 has no square root
	x := secp256k1NonResidue()
	b = append([]byte{0x02}, x.FillBytes(make([]byte, 32))...)
	if _, err := c.Unmarshal(b); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("x = %v: got %v, want ErrInvalidEncoding", x, err)
	}

	// the all zero string decodes to the ristretto identity
	for _, name := range []string{Ristretto255, Ristretto255GR} {
		c := mustCurve(t, name)
		if _, err := c.Unmarshal(make([]byte, 32)); !errors.Is(err, ErrIdentityPoint) {
			t.Errorf("%s: got %v, want ErrIdentityPoint", name, err)
		}
	}
}

// secp256k1NonResidue returns the smallest x for which x³ + 7 is not a square mod p
func secp256k1NonResidue() *big.Int {
	p, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	exp := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	minusOne := new(big.Int).Sub(p, big.NewInt(1))

	for x := big.NewInt(1); ; x.Add(x, big.NewInt(1)) {
		y2 := new(big.Int).Exp(x, big.NewInt(3), p)
		y2.Add(y2, big.NewInt(7)).Mod(y2, p)
		// Euler's criterion
		if new(big.Int).Exp(y2, exp, p).Cmp(minusOne) == 0 {
			return x
		}
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	for _, name := range Curves() {
		t.Run(name, func(t *testing.T) {
			c := mustCurve(t, name)
			b := make([]byte, c.EncodeLen())
			var rejected int
			for i := 0; i < 256; i++ {
				if _, err := rand.Read(b); err != nil {
					t.Fatal(err)
				}
				// keep a valid prefix on the prefixed encodings
				if name != Ristretto255 && name != Ristretto255GR {
					b[0] = 0x02 | b[0]&1
				}

				p, err := c.Unmarshal(b)
				if err != nil {
					if !errors.Is(err, ErrInvalidEncoding) {
						t.Fatalf("%x: got %v, want ErrInvalidEncoding", b, err)
					}
					rejected++
					continue
				}
				if !bytes.Equal(p.Marshal(), b) {
					t.Fatalf("%x accepted but marshals to %x", b, p.Marshal())
				}
			}
			if rejected == 0 {
				t.Error("no random string was rejected")
			}
		})
	}
}

func TestRistrettoBackendsAgree(t *testing.T) {
	gtank, gr := mustCurve(t, Ristretto255), mustCurve(t, Ristretto255GR)

	seed := make([]byte, 64*8)
	if _, err := rand.Read(seed); err != nil {
		t.Fatal(err)
	}

	// same uniform bytes reduce to the same secret on both backends
	r1, r2 := bytes.NewReader(seed), bytes.NewReader(seed)
	for i := 0; i < 8; i++ {
		k1, p1, err := gtank.GenerateKey(r1)
		if err != nil {
			t.Fatal(err)
		}
		k2, p2, err := gr.GenerateKey(r2)
		if err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(k1.Bytes(), k2.Bytes()) {
			t.Fatalf("#%d: scalars differ: %x != %x", i, k1.Bytes(), k2.Bytes())
		}
		if !bytes.Equal(p1.Marshal(), p2.Marshal()) {
			t.Fatalf("#%d: points differ: %x != %x", i, p1.Marshal(), p2.Marshal())
		}

		// each backend decodes the other's encoding
		if _, err := gr.Unmarshal(p1.Marshal()); err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
		if _, err := gtank.Unmarshal(p2.Marshal()); err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestGenerateKeyRandomness(t *testing.T) {
	for _, name := range Curves() {
		c := mustCurve(t, name)
		if _, _, err := c.GenerateKey(failingReader{}); !errors.Is(err, ErrRandomnessUnavailable) {
			t.Errorf("%s: got %v, want ErrRandomnessUnavailable", name, err)
		}
	}
}

func TestMixedCurvesPanic(t *testing.T) {
	k1 := mustCurve(t, Secp256k1)
	p256 := mustCurve(t, P256)
	p384 := mustCurve(t, P384)

	expectPanic := func(what string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", what)
			}
		}()
		f()
	}

	g := p256.ScalarBaseMult(p256.ScalarFromUint32(1))
	expectPanic("secp256k1 with a P256 point", func() { k1.Add(g, g) })
	expectPanic("P384 with a P256 point", func() { p384.Negate(g) })

	if g.Equal(p384.ScalarBaseMult(p384.ScalarFromUint32(1))) {
		t.Error("points on different curves compare equal")
	}
}

func BenchmarkScalarMult(b *testing.B) {
	for _, name := range Curves() {
		b.Run(name, func(b *testing.B) {
			c := mustCurve(b, name)
			k, p, err := c.GenerateKey(rand.Reader)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.ScalarMult(p, k)
			}
		})
	}
}
