package crypto

import "testing"

func TestKeccak256EmptyInput(t *testing.T) {
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	got := Keccak256()
	if hexString(got) != want {
		t.Fatalf("Keccak256() = %s, want %s", hexString(got), want)
	}
}

func TestKeccak256MultipleArgsEqualsConcat(t *testing.T) {
	a := Keccak256([]byte("hello"), []byte(" world"))
	b := Keccak256([]byte("hello world"))
	if hexString(a) != hexString(b) {
		t.Fatalf("Keccak256(split) = %s, Keccak256(joined) = %s, want equal", hexString(a), hexString(b))
	}
}

func TestKeccak256HashMatchesKeccak256(t *testing.T) {
	data := []byte("eWASM")
	h := Keccak256Hash(data)
	if hexString(h.Bytes()) != hexString(Keccak256(data)) {
		t.Fatalf("Keccak256Hash/Keccak256 mismatch for %q", data)
	}
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xF]
	}
	return string(out)
}
