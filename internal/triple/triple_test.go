package triple

import "testing"

func TestParseFullTriples(t *testing.T) {
	cases := []struct {
		in   string
		arch Arch
		ven  Vendor
		os   OS
		env  Environment
	}{
		{"x86_64-unknown-linux-gnu", X86_64, UnknownVendor, Linux, GNU},
		{"aarch64-apple-darwin21.6", AArch64, Apple, Darwin, UnknownEnvironment},
		{"riscv32-unknown-openbsd7.3", RISCV32, UnknownVendor, OpenBSD, UnknownEnvironment},
		{"armv7-unknown-linux-gnueabihf", ARM, UnknownVendor, Linux, GNUEABIHF},
		{"powerpc64-ibm-linux-gnu", PPC64, IBM, Linux, GNU},
		{"aarch64-linux-android29", AArch64, UnknownVendor, Linux, Android},
		{"arm-none-eabi", ARM, UnknownVendor, None, EABI},
		{"wasm32-wasi", Wasm32, UnknownVendor, WASI, UnknownEnvironment},
	}
	for _, tc := range cases {
		got := Parse(tc.in)
		if got.Arch != tc.arch || got.Vendor != tc.ven || got.OS != tc.os || got.Environment != tc.env {
			t.Fatalf("Parse(%q) = %+v", tc.in, got)
		}
		if got.String() != tc.in {
			t.Fatalf("Parse(%q).String() = %q", tc.in, got.String())
		}
	}
}

func TestPredicates(t *testing.T) {
	if !Parse("aarch64-apple-macosx13").IsOSDarwin() {
		t.Fatalf("macosx should count as darwin")
	}
	if Parse("x86_64-unknown-linux-gnu").IsOSDarwin() {
		t.Fatalf("linux is not darwin")
	}
	if !Parse("x86_64-unknown-linux-gnu").IsGNUEnvironment() {
		t.Fatalf("gnu environment not detected")
	}
	if Parse("x86_64-unknown-linux-musl").IsGNUEnvironment() {
		t.Fatalf("musl misdetected as gnu")
	}
	if !Parse("riscv64-unknown-openbsd").IsOSOpenBSD() {
		t.Fatalf("openbsd not detected")
	}
	if !Parse("aarch64-linux-android29").IsAndroid() {
		t.Fatalf("android not detected")
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	z := Parse("")
	if z.Arch != UnknownArch || z.OS != UnknownOS {
		t.Fatalf("empty triple should parse to unknowns, got %+v", z)
	}
	u := Parse("mips64-weird-hurd-uclibc")
	if u.Arch != UnknownArch || u.OS != UnknownOS || u.Environment != UnknownEnvironment {
		t.Fatalf("unrecognized components must stay unknown, got %+v", u)
	}
	if u.String() != "mips64-weird-hurd-uclibc" {
		t.Fatalf("raw string not preserved: %q", u.String())
	}
}
