package tree

import (
	"regexp"
	"slices"
	"strings"
	"sync"
)

// isaWildcard replaces every recognized architecture keyword in a
// normalized label.
const isaWildcard = "@"

// isaKeywords lists the instruction-set-architecture tokens canonicalized by
// NormalizeLabel. Identifiers differing only in these tokens (say an x86
// helper cloned for riscv) normalize to the same label and therefore group
// into the same hash bucket.
//
//nolint:gochecknoglobals // Read-only keyword table, compiled once.
var isaKeywords = []string{
	// LoongArch.
	"loongarch64", "loongarch32", "loongarch", "loong64", "loong32", "loong",

	// RISC-V.
	"riscv64", "riscv32", "riscv",

	// ARM64.
	"arm64", "aarch64",

	// ARM.
	"aarch32", "aarch", "arm",

	// X86.
	"x86_64", "x64", "x86", "ia32", "i386",

	// S390.
	"s390x", "s390", "systemz",

	// PowerPC.
	"powerpc64", "powerpc32", "powerpc", "ppc64", "ppc32", "ppc",

	// MIPS.
	"mips64", "mips32", "mips",
}

// isaPattern compiles the keyword alternation lazily, longest keyword first
// so that "riscv64" is not consumed as "riscv" plus a suffix.
//
//nolint:gochecknoglobals // Lazily-built read-only pattern.
var isaPattern = sync.OnceValue(func() *regexp.Regexp {
	sorted := slices.Clone(isaKeywords)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return len(b) - len(a)
	})

	quoted := make([]string, len(sorted))
	for i, keyword := range sorted {
		quoted[i] = regexp.QuoteMeta(keyword)
	}

	return regexp.MustCompile("(?i)(" + strings.Join(quoted, "|") + ")")
})

// NormalizeLabel returns label with every architecture keyword replaced by
// the wildcard marker, case-insensitively. Labels without keywords are
// returned unchanged.
func NormalizeLabel(label string) string {
	if label == "" {
		return ""
	}

	norm := isaPattern().ReplaceAllString(label, isaWildcard)
	if norm == label {
		return label
	}

	return norm
}
