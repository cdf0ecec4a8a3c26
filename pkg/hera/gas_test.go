package hera

import "testing"

func TestRetainedGasEIP150(t *testing.T) {
	tests := []struct {
		gas  uint64
		want uint64
	}{
		{0, 0},
		{63, 63},
		{64, 63},
		{128, 126},
		{100_000, 98_438},
	}
	for _, tt := range tests {
		if got := RetainedGas(tt.gas); got != tt.want {
			t.Errorf("RetainedGas(%d) = %d, want %d", tt.gas, got, tt.want)
		}
	}
}

// Testable property 8: copy-gas is non-decreasing in length and equals the
// base charge when length == 0.
func TestCopyGasMonotonicity(t *testing.T) {
	prev, err := CopyGas(GasVerylow, 0)
	if err != nil {
		t.Fatalf("CopyGas(0): %v", err)
	}
	if prev != GasVerylow {
		t.Fatalf("CopyGas(base, 0) = %d, want %d", prev, GasVerylow)
	}
	for _, length := range []uint64{1, 32, 33, 64, 1000, 1_000_000} {
		got, err := CopyGas(GasVerylow, length)
		if err != nil {
			t.Fatalf("CopyGas(%d): %v", length, err)
		}
		if got < prev {
			t.Fatalf("CopyGas(%d) = %d < CopyGas(prev) = %d, want non-decreasing", length, got, prev)
		}
		prev = got
	}
}

func TestCopyGasExtcodeBaseAtZeroLength(t *testing.T) {
	got, err := CopyGas(GasExtcode, 0)
	if err != nil {
		t.Fatalf("CopyGas(extcode, 0): %v", err)
	}
	if got != GasExtcode {
		t.Fatalf("CopyGas(extcode, 0) = %d, want %d", got, GasExtcode)
	}
}

// safeMulAdd is the shared overflow-safe primitive behind CopyGas/LogGas;
// exercise its two guarding predicates directly, since GasCopy/GasLogData
// are small enough that no real (uint64-bounded) length can ever drive
// CopyGas/LogGas's own word-count product past the product-overflow
// predicate.
func TestSafeMulAddRejectsProductOverflow(t *testing.T) {
	if _, err := safeMulAdd(0, 1<<40, 1<<30); err != ErrOutOfGas {
		t.Fatalf("safeMulAdd with overflowing product = %v, want ErrOutOfGas", err)
	}
}

func TestSafeMulAddRejectsSumOverflow(t *testing.T) {
	if _, err := safeMulAdd(^uint64(0), 1, 1); err != ErrOutOfGas {
		t.Fatalf("safeMulAdd with overflowing sum = %v, want ErrOutOfGas", err)
	}
}

func TestSafeMulAddAcceptsNonOverflowing(t *testing.T) {
	got, err := safeMulAdd(10, 3, 4)
	if err != nil {
		t.Fatalf("safeMulAdd(10,3,4): %v", err)
	}
	if got != 22 {
		t.Fatalf("safeMulAdd(10,3,4) = %d, want 22", got)
	}
}

func TestCeilWordsDoesNotOverflowNearMaxLength(t *testing.T) {
	// Regression test: (length+31)/32 would silently wrap around for
	// length within 31 of u64::MAX, producing an artificially small word
	// count instead of a huge (but non-overflowing) one.
	if got := ceilWords(^uint64(0)); got == 0 {
		t.Fatalf("ceilWords(MaxUint64) = 0, want a large non-zero word count")
	}
}

func TestLogGasMonotonicityAndTopics(t *testing.T) {
	base, err := LogGas(0, 0)
	if err != nil {
		t.Fatalf("LogGas(0,0): %v", err)
	}
	if base != GasLog {
		t.Fatalf("LogGas(0,0) = %d, want %d", base, GasLog)
	}
	withTopics, err := LogGas(4, 0)
	if err != nil {
		t.Fatalf("LogGas(4,0): %v", err)
	}
	if want := GasLog + 4*GasLogTopic; withTopics != want {
		t.Fatalf("LogGas(4,0) = %d, want %d", withTopics, want)
	}
	withData, err := LogGas(4, 100)
	if err != nil {
		t.Fatalf("LogGas(4,100): %v", err)
	}
	if withData <= withTopics {
		t.Fatalf("LogGas(4,100) = %d, want > LogGas(4,0) = %d", withData, withTopics)
	}
}

func TestStorageStoreGasTiers(t *testing.T) {
	var zero, nonZeroA, nonZeroB [32]byte
	nonZeroA[31] = 1
	nonZeroB[31] = 2

	if got := StorageStoreGas(zero, nonZeroA); got != GasStorageStoreCreate {
		t.Errorf("StorageStoreGas(0 -> nonzero) = %d, want %d", got, GasStorageStoreCreate)
	}
	if got := StorageStoreGas(nonZeroA, nonZeroB); got != GasStorageStoreChange {
		t.Errorf("StorageStoreGas(nonzero -> nonzero) = %d, want %d", got, GasStorageStoreChange)
	}
	if got := StorageStoreGas(nonZeroA, zero); got != GasStorageStoreChange {
		t.Errorf("StorageStoreGas(nonzero -> 0) = %d, want %d", got, GasStorageStoreChange)
	}
	if got := StorageStoreGas(zero, zero); got != GasStorageStoreChange {
		t.Errorf("StorageStoreGas(0 -> 0) = %d, want %d", got, GasStorageStoreChange)
	}
}
