// Package triple models target triples of the form
// arch-vendor-os-environment and the predicates the runtime routine
// tables key off.
package triple

import (
	"fmt"
	"strings"
)

// Arch enumerates the recognized architectures.
type Arch uint8

const (
	UnknownArch Arch = iota
	X86
	X86_64
	ARM
	AArch64
	RISCV32
	RISCV64
	PPC32
	PPC64
	PPC64LE
	Wasm32
)

func (a Arch) String() string {
	switch a {
	case X86:
		return "i686"
	case X86_64:
		return "x86_64"
	case ARM:
		return "arm"
	case AArch64:
		return "aarch64"
	case RISCV32:
		return "riscv32"
	case RISCV64:
		return "riscv64"
	case PPC32:
		return "powerpc"
	case PPC64:
		return "powerpc64"
	case PPC64LE:
		return "powerpc64le"
	case Wasm32:
		return "wasm32"
	default:
		return "unknown"
	}
}

// Vendor enumerates the recognized vendors.
type Vendor uint8

const (
	UnknownVendor Vendor = iota
	Apple
	PC
	IBM
)

func (v Vendor) String() string {
	switch v {
	case Apple:
		return "apple"
	case PC:
		return "pc"
	case IBM:
		return "ibm"
	default:
		return "unknown"
	}
}

// OS enumerates the recognized operating systems.
type OS uint8

const (
	UnknownOS OS = iota
	Linux
	Darwin
	MacOSX
	IOS
	FreeBSD
	OpenBSD
	NetBSD
	Windows
	Fuchsia
	WASI
	None
)

func (o OS) String() string {
	switch o {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case MacOSX:
		return "macosx"
	case IOS:
		return "ios"
	case FreeBSD:
		return "freebsd"
	case OpenBSD:
		return "openbsd"
	case NetBSD:
		return "netbsd"
	case Windows:
		return "windows"
	case Fuchsia:
		return "fuchsia"
	case WASI:
		return "wasi"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// Environment enumerates the recognized ABI environments.
type Environment uint8

const (
	UnknownEnvironment Environment = iota
	GNU
	GNUEABI
	GNUEABIHF
	GNUX32
	Musl
	MuslEABIHF
	Android
	MSVC
	EABI
)

func (e Environment) String() string {
	switch e {
	case GNU:
		return "gnu"
	case GNUEABI:
		return "gnueabi"
	case GNUEABIHF:
		return "gnueabihf"
	case GNUX32:
		return "gnux32"
	case Musl:
		return "musl"
	case MuslEABIHF:
		return "musleabihf"
	case Android:
		return "android"
	case MSVC:
		return "msvc"
	case EABI:
		return "eabi"
	default:
		return "unknown"
	}
}

// Triple is a parsed target triple. Unrecognized components parse to the
// Unknown values rather than failing; an empty triple is valid and means
// "no target constraints".
type Triple struct {
	Raw         string
	Arch        Arch
	Vendor      Vendor
	OS          OS
	Environment Environment
}

// Parse splits an arch-vendor-os-environment string. Missing middle
// components are tolerated ("riscv32-linux", "arm-none-eabi").
func Parse(s string) Triple {
	t := Triple{Raw: s}
	if s == "" {
		return t
	}
	fields := strings.SplitN(s, "-", 4)
	t.Arch = parseArch(fields[0])
	rest := fields[1:]

	if len(rest) == 3 {
		t.Vendor = parseVendor(rest[0])
		t.OS = parseOS(rest[1])
		t.Environment = parseEnvironment(rest[2])
		return t
	}
	if len(rest) == 2 {
		if v := parseVendor(rest[0]); v != UnknownVendor || rest[0] == "unknown" {
			t.Vendor = v
			t.OS = parseOS(rest[1])
			return t
		}
		t.OS = parseOS(rest[0])
		t.Environment = parseEnvironment(rest[1])
		return t
	}
	if len(rest) == 1 {
		if o := parseOS(rest[0]); o != UnknownOS {
			t.OS = o
			return t
		}
		t.Vendor = parseVendor(rest[0])
	}
	return t
}

func parseArch(s string) Arch {
	switch {
	case s == "i386" || s == "i486" || s == "i586" || s == "i686" || s == "x86":
		return X86
	case s == "x86_64" || s == "amd64":
		return X86_64
	case strings.HasPrefix(s, "aarch64") || s == "arm64":
		return AArch64
	case strings.HasPrefix(s, "arm") || strings.HasPrefix(s, "thumb"):
		return ARM
	case s == "riscv32":
		return RISCV32
	case s == "riscv64":
		return RISCV64
	case s == "powerpc64le" || s == "ppc64le":
		return PPC64LE
	case s == "powerpc64" || s == "ppc64":
		return PPC64
	case s == "powerpc" || s == "ppc" || s == "ppc32":
		return PPC32
	case s == "wasm32":
		return Wasm32
	default:
		return UnknownArch
	}
}

func parseVendor(s string) Vendor {
	switch s {
	case "apple":
		return Apple
	case "pc":
		return PC
	case "ibm":
		return IBM
	default:
		return UnknownVendor
	}
}

func parseOS(s string) OS {
	// Version suffixes ride along: "darwin21", "macosx10.15", "openbsd7.3".
	switch {
	case strings.HasPrefix(s, "linux"):
		return Linux
	case strings.HasPrefix(s, "darwin"):
		return Darwin
	case strings.HasPrefix(s, "macosx") || strings.HasPrefix(s, "macos"):
		return MacOSX
	case strings.HasPrefix(s, "ios"):
		return IOS
	case strings.HasPrefix(s, "freebsd"):
		return FreeBSD
	case strings.HasPrefix(s, "openbsd"):
		return OpenBSD
	case strings.HasPrefix(s, "netbsd"):
		return NetBSD
	case strings.HasPrefix(s, "windows") || strings.HasPrefix(s, "win32"):
		return Windows
	case strings.HasPrefix(s, "fuchsia"):
		return Fuchsia
	case strings.HasPrefix(s, "wasi"):
		return WASI
	case s == "none":
		return None
	default:
		return UnknownOS
	}
}

func parseEnvironment(s string) Environment {
	switch {
	case s == "gnueabihf":
		return GNUEABIHF
	case s == "gnueabi":
		return GNUEABI
	case s == "gnux32":
		return GNUX32
	case strings.HasPrefix(s, "gnu"):
		return GNU
	case s == "musleabihf":
		return MuslEABIHF
	case strings.HasPrefix(s, "musl"):
		return Musl
	case strings.HasPrefix(s, "android"):
		return Android
	case strings.HasPrefix(s, "msvc"):
		return MSVC
	case s == "eabi" || s == "eabihf":
		return EABI
	default:
		return UnknownEnvironment
	}
}

// IsOSDarwin reports whether the OS is any Apple platform.
func (t Triple) IsOSDarwin() bool {
	return t.OS == Darwin || t.OS == MacOSX || t.OS == IOS
}

// IsOSOpenBSD reports whether the OS is OpenBSD.
func (t Triple) IsOSOpenBSD() bool { return t.OS == OpenBSD }

// IsGNUEnvironment reports whether the ABI environment is a GNU variant.
func (t Triple) IsGNUEnvironment() bool {
	switch t.Environment {
	case GNU, GNUEABI, GNUEABIHF, GNUX32:
		return true
	default:
		return false
	}
}

// IsAndroid reports whether the ABI environment is Android.
func (t Triple) IsAndroid() bool { return t.Environment == Android }

func (t Triple) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return fmt.Sprintf("%s-%s-%s-%s", t.Arch, t.Vendor, t.OS, t.Environment)
}
